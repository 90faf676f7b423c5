package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestRequestRewindable(t *testing.T) {
	cases := map[string]struct {
		Stream    io.Reader
		ExpectErr string
	}{
		"rewindable": {
			Stream: bytes.NewReader([]byte("abc")),
		},
		"not rewindable": {
			Stream:    bytes.NewBuffer([]byte("abc")),
			ExpectErr: "stream is not seekable",
		},
		"empty buffer": {
			Stream: bytes.NewBuffer(nil),
		},
		"nil stream": {},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			req := NewStackRequest().(*Request)

			req, err := req.SetStream(c.Stream)
			if err != nil {
				t.Fatalf("expect no error setting stream, %v", err)
			}

			err = req.RewindStream()
			if len(c.ExpectErr) != 0 {
				if err == nil {
					t.Fatalf("expect error, got none")
				}
				if e, a := c.ExpectErr, err.Error(); !strings.Contains(a, e) {
					t.Fatalf("expect error to contain %v, got %v", e, a)
				}
				return
			}
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}
		})
	}
}

func TestRequestRewindStreamStartPosition(t *testing.T) {
	stream := bytes.NewReader([]byte("skip-body"))
	if _, err := stream.Seek(5, io.SeekStart); err != nil {
		t.Fatalf("seek, %v", err)
	}

	req, err := NewStackRequest().(*Request).SetStream(stream)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := req.RewindStream(); err != nil {
			t.Fatalf("attempt %d: rewind, %v", i, err)
		}
		b, err := io.ReadAll(req.GetStream())
		if err != nil {
			t.Fatalf("attempt %d: read, %v", i, err)
		}
		if e, a := "body", string(b); e != a {
			t.Errorf("attempt %d: expect %q, got %q", i, e, a)
		}
	}
}

func TestRequestStreamLength(t *testing.T) {
	cases := map[string]struct {
		Stream   io.Reader
		ExpectN  int64
		ExpectOK bool
	}{
		"nil": {
			ExpectOK: true,
		},
		"bytes reader": {
			Stream:   bytes.NewReader([]byte("hello")),
			ExpectN:  5,
			ExpectOK: true,
		},
		"buffer": {
			Stream:   bytes.NewBufferString("hi"),
			ExpectN:  2,
			ExpectOK: true,
		},
		"unknown": {
			Stream: io.MultiReader(strings.NewReader("abc")),
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			req, err := NewStackRequest().(*Request).SetStream(c.Stream)
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}

			n, ok, err := req.StreamLength()
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}
			if e, a := c.ExpectOK, ok; e != a {
				t.Errorf("expect ok %v, got %v", e, a)
			}
			if e, a := c.ExpectN, n; e != a {
				t.Errorf("expect length %v, got %v", e, a)
			}
		})
	}
}

func TestRequestBuild(t *testing.T) {
	cases := map[string]struct {
		Stream        io.Reader
		ContentLength int64
		ExpectBody    bool
		ExpectLength  int64
	}{
		"no stream": {
			ContentLength: -1,
			ExpectLength:  0,
		},
		"known length": {
			Stream:        strings.NewReader("abc"),
			ContentLength: 3,
			ExpectBody:    true,
			ExpectLength:  3,
		},
		"unknown length": {
			Stream:        io.MultiReader(strings.NewReader("abc")),
			ContentLength: -1,
			ExpectBody:    true,
			ExpectLength:  -1,
		},
		"pipe": {
			Stream: func() io.Reader {
				r, _ := io.Pipe()
				return r
			}(),
			ContentLength: 10,
			ExpectBody:    true,
			ExpectLength:  -1,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			req, err := NewStackRequest().(*Request).SetStream(c.Stream)
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}
			req.ContentLength = c.ContentLength

			built := req.Build(context.Background())
			if e, a := c.ExpectBody, built.Body != nil; e != a {
				t.Errorf("expect body %v, got %v", e, a)
			}
			if e, a := c.ExpectLength, built.ContentLength; e != a {
				t.Errorf("expect content length %v, got %v", e, a)
			}
		})
	}
}

func TestRequestBuildClosedBodyDetachesStream(t *testing.T) {
	req, err := NewStackRequest().(*Request).SetStream(strings.NewReader("abc"))
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	req.ContentLength = 3

	built := req.Build(context.Background())
	if err := built.Body.Close(); err != nil {
		t.Fatalf("expect no close error, got %v", err)
	}

	n, err := built.Body.Read(make([]byte, 3))
	if e, a := io.EOF, err; e != a {
		t.Errorf("expect %v, got %v", e, a)
	}
	if n != 0 {
		t.Errorf("expect no bytes read after close, got %d", n)
	}

	if err := req.RewindStream(); err != nil {
		t.Fatalf("expect stream still usable, %v", err)
	}
	b, _ := io.ReadAll(req.GetStream())
	if e, a := "abc", string(b); e != a {
		t.Errorf("expect %q, got %q", e, a)
	}
}

func TestRequestIsHTTPS(t *testing.T) {
	req := NewStackRequest().(*Request)
	if req.IsHTTPS() {
		t.Errorf("expect no scheme to not be https")
	}
	req.URL.Scheme = "HTTPS"
	if !req.IsHTTPS() {
		t.Errorf("expect https")
	}

	req.Request = &http.Request{}
	if req.IsHTTPS() {
		t.Errorf("expect nil URL to not be https")
	}
}
