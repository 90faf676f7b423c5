package http

import "testing"

func TestValidateEndpointHost(t *testing.T) {
	cases := map[string]struct {
		Input string
		Valid bool
	}{
		"service host":     {Input: "widgets.us-west-2.example.com", Valid: true},
		"local with port":  {Input: "127.0.0.1:8080", Valid: true},
		"fqdn":             {Input: "widgets.example.com.", Valid: true},
		"host prefix typo": {Input: "shard-.widgets.example.com", Valid: false},
		"empty label":      {Input: "widgets..example.com", Valid: false},
		"port overflow":    {Input: "widgets.example.com:70000", Valid: false},
		"port only":        {Input: ":443", Valid: false},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateEndpointHost(c.Input)
			if e, a := c.Valid, err == nil; e != a {
				t.Errorf("expect valid %v, got %v, %v", e, a, err)
			}
		})
	}
}
