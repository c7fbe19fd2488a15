package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var client = http.Client{
	Timeout: time.Minute,
}

// call performs the request against the node and decodes the response
// document into resp. An error document from the node becomes the error.
func call(method string, path string, req any, resp any) error {
	var body io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	r, err := http.NewRequest(method, url+path, body)
	if err != nil {
		return err
	}
	if req != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	res, err := client.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNoContent:
		return nil

	case res.StatusCode >= http.StatusBadRequest:
		var er struct {
			Error   string            `json:"error"`
			Fields  map[string]string `json:"fields"`
			Details json.RawMessage   `json:"details"`
		}
		if err := json.NewDecoder(res.Body).Decode(&er); err != nil {
			return fmt.Errorf("node responded %d", res.StatusCode)
		}
		switch {
		case len(er.Fields) > 0:
			return fmt.Errorf("%s: %v", er.Error, er.Fields)
		case len(er.Details) > 0:
			return fmt.Errorf("%s: %s", er.Error, er.Details)
		}
		return errors.New(er.Error)
	}

	if resp == nil {
		return nil
	}

	return json.NewDecoder(res.Body).Decode(resp)
}
