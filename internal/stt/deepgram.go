// Package stt uploads finished audio containers to Deepgram's prerecorded
// endpoint and extracts the transcript.
package stt

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"os"
	"strings"
)

// copyBufSize is the fixed read buffer used to stream the container to the
// network; the body is never held in memory as a whole.
const copyBufSize = 512

// Config controls the Deepgram endpoint.
type Config struct {
	APIKey  string
	BaseURL string // e.g. https://api.deepgram.com/v1
}

// Client posts containers for transcription. An empty transcript string
// covers the whole failure taxonomy: unreachable service, non-200 status,
// parse failure, or a missing field. No retries.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepgram.com/v1"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, http: httpClient}
}

// Transcribe streams the container at path as a single-part multipart body
// and returns the transcript, or "" when no transcript was produced.
func (c *Client) Transcribe(path string) string {
	f, err := os.Open(path)
	if err != nil {
		log.Error("open container", "path", path, "err", err)
		return ""
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Error("stat container", "path", path, "err", err)
		return ""
	}

	boundary := randomBoundary()
	partHeader := "--" + boundary + "\r\n" +
		`Content-Disposition: form-data; name="file"; filename="audio.wav"` + "\r\n" +
		"Content-Type: audio/wav\r\n\r\n"
	closing := "\r\n--" + boundary + "--\r\n"

	// The transport needs the length before the first body byte goes out.
	total := int64(len(partHeader)) + info.Size() + int64(len(closing))

	pr, pw := io.Pipe()
	go func() {
		if _, err := io.WriteString(pw, partHeader); err != nil {
			pw.CloseWithError(err)
			return
		}
		buf := make([]byte, copyBufSize)
		if _, err := io.CopyBuffer(pw, f, buf); err != nil {
			pw.CloseWithError(err)
			return
		}
		_, err := io.WriteString(pw, closing)
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(c.cfg.BaseURL, "/")+"/listen", pr)
	if err != nil {
		log.Error("build transcription request", "err", err)
		return ""
	}
	req.ContentLength = total
	req.Header.Set("Authorization", "Token "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("transcription request failed", "err", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("transcription service rejected upload", "status", resp.StatusCode)
		return ""
	}

	var reply transcriptionReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		log.Warn("decode transcription reply", "err", err)
		return ""
	}
	return extractTranscript(reply)
}

type transcriptionReply struct {
	// Flat form some proxies and stubs return.
	Transcript string `json:"transcript"`

	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// The flat field is consulted only when the nested one is absent; a nested
// transcript is authoritative even when empty.
func extractTranscript(reply transcriptionReply) string {
	if len(reply.Results.Channels) > 0 && len(reply.Results.Channels[0].Alternatives) > 0 {
		return strings.TrimSpace(reply.Results.Channels[0].Alternatives[0].Transcript)
	}
	return strings.TrimSpace(reply.Transcript)
}

func randomBoundary() string {
	var b [15]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("rand: %v", err))
	}
	return "talkie" + hex.EncodeToString(b[:])
}
