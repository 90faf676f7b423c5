package uri

import (
	"strings"
	"testing"
)

func TestValidPortNumber(t *testing.T) {
	cases := map[string]struct {
		Input string
		Valid bool
	}{
		"port":     {Input: "443", Valid: true},
		"zero":     {Input: "0", Valid: true},
		"max":      {Input: "65535", Valid: true},
		"float":    {Input: "443.0", Valid: false},
		"negative": {Input: "-443", Valid: false},
		"overflow": {Input: "65536", Valid: false},
		"empty":    {Input: "", Valid: false},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if e, a := c.Valid, ValidPortNumber(c.Input); e != a {
				t.Errorf("expect valid %v, got %v", e, a)
			}
		})
	}
}

func TestValidHostLabel(t *testing.T) {
	cases := map[string]struct {
		Input string
		Valid bool
	}{
		"letters":         {Input: "widgets", Valid: true},
		"digits":          {Input: "123", Valid: true},
		"single":          {Input: "a", Valid: true},
		"inner hyphen":    {Input: "us-west-2", Valid: true},
		"leading hyphen":  {Input: "-widgets", Valid: false},
		"trailing hyphen": {Input: "widgets-", Valid: false},
		"template":        {Input: "{shard}-widgets", Valid: false},
		"dotted":          {Input: "shard.widgets", Valid: false},
		"slash":           {Input: "shard/widgets", Valid: false},
		"63 characters":   {Input: strings.Repeat("a", 63), Valid: true},
		"64 characters":   {Input: strings.Repeat("a", 64), Valid: false},
		"empty":           {Input: "", Valid: false},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if e, a := c.Valid, ValidHostLabel(c.Input); e != a {
				t.Errorf("expect valid %v, got %v", e, a)
			}
		})
	}
}

func TestValidateHost(t *testing.T) {
	cases := map[string]struct {
		Input     string
		ExpectErr string
	}{
		"empty":        {Input: ""},
		"host":         {Input: "widgets.example.com"},
		"fqdn":         {Input: "widgets.example.com."},
		"with port":    {Input: "localhost:8080"},
		"ipv4":         {Input: "127.0.0.1:8080"},
		"empty label":  {Input: "widgets..com", ExpectErr: `host label ""`},
		"only dot":     {Input: ".", ExpectErr: `host label ""`},
		"bad port":     {Input: "localhost:99999", ExpectErr: "port number"},
		"empty port":   {Input: "localhost:", ExpectErr: "port number"},
		"missing host": {Input: ":8080", ExpectErr: "must not be empty"},
		"too long": {
			Input:     strings.Repeat(strings.Repeat("a", 63)+".", 4) + "com",
			ExpectErr: "at most 255",
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateHost(c.Input)
			if len(c.ExpectErr) == 0 {
				if err != nil {
					t.Fatalf("expect no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expect error")
			}
			if e, a := c.ExpectErr, err.Error(); !strings.Contains(a, e) {
				t.Errorf("expect error to contain %q, got %v", e, a)
			}
		})
	}
}
