package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

func (c *apiClient) login(password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(http.MethodPost, "/auth/login", map[string]string{"password": password}, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

type sessionState struct {
	IsAdmin   bool   `json:"isAdmin"`
	IsEditing bool   `json:"isEditing"`
	Language  string `json:"language"`
	Direction string `json:"direction"`
}

func (c *apiClient) session() (sessionState, error) {
	var state sessionState
	err := c.do(http.MethodGet, "/session", nil, &state)
	return state, err
}

func (c *apiClient) setEditing(editing bool) (sessionState, error) {
	var state sessionState
	err := c.do(http.MethodPut, "/session/editing", map[string]bool{"editing": editing}, &state)
	return state, err
}

func (c *apiClient) setLanguage(lang string) (sessionState, error) {
	var state sessionState
	err := c.do(http.MethodPut, "/session/language", map[string]string{"language": lang}, &state)
	return state, err
}

func (c *apiClient) portfolio() (json.RawMessage, error) {
	var doc json.RawMessage
	err := c.do(http.MethodGet, "/portfolio", nil, &doc)
	return doc, err
}

func (c *apiClient) patchField(path string, value interface{}) error {
	return c.do(http.MethodPatch, "/portfolio/field", map[string]interface{}{
		"path":  path,
		"value": value,
	}, nil)
}

func (c *apiClient) addItem(collection string, record json.RawMessage) (json.RawMessage, error) {
	var created json.RawMessage
	err := c.do(http.MethodPost, "/portfolio/"+collection, record, &created)
	return created, err
}

func (c *apiClient) deleteItem(collection, id string) error {
	return c.do(http.MethodDelete, "/portfolio/"+collection+"/"+id, nil, nil)
}
