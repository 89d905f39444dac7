package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MetaAccessTokenSecret é o nome do secret file que guarda o token do Meta
const MetaAccessTokenSecret = "meta_access_token"

const (
	renderBaseURL  = "https://api.render.com/v1"
	renderPageSize = 100
	// limite de páginas para não seguir cursores indefinidamente
	renderMaxPages = 20
)

// SecretStorage guarda os secrets que sobrevivem a um redeploy do serviço.
// Hoje só o token do Meta passa por aqui.
type SecretStorage interface {
	ListSecrets(ctx context.Context, serviceID string) (map[string]string, error)
	SaveSecret(ctx context.Context, serviceID, name, content string) error
}

// SecretStoreError é a resposta não-2xx da API de secret files
type SecretStoreError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *SecretStoreError) Error() string {
	return fmt.Sprintf("config: secret store %s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

type secretFilePage []struct {
	SecretFile struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	} `json:"secretFile"`
	Cursor string `json:"cursor"`
}

// RenderSecretStore implementa SecretStorage sobre os secret files do Render
type RenderSecretStore struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewRenderSecretStore(render Render) *RenderSecretStore {
	return &RenderSecretStore{
		apiKey:     render.APIKey,
		baseURL:    renderBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListSecrets percorre as páginas de secret files e devolve nome -> conteúdo
func (s *RenderSecretStore) ListSecrets(ctx context.Context, serviceID string) (map[string]string, error) {
	secretsByName := make(map[string]string)
	cursor := ""

	for page := 0; page < renderMaxPages; page++ {
		query := url.Values{}
		query.Set("limit", fmt.Sprint(renderPageSize))
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		endpoint := fmt.Sprintf("%s/services/%s/secret-files?%s", s.baseURL, url.PathEscape(serviceID), query.Encode())
		var files secretFilePage
		if err := s.do(ctx, "list", http.MethodGet, endpoint, nil, &files); err != nil {
			return nil, err
		}

		for _, file := range files {
			secretsByName[file.SecretFile.Name] = file.SecretFile.Content
		}

		if len(files) < renderPageSize {
			break
		}
		cursor = files[len(files)-1].Cursor
		if cursor == "" {
			break
		}
	}

	return secretsByName, nil
}

// SaveSecret cria ou substitui um secret file. Sem serviceID não há onde gravar.
func (s *RenderSecretStore) SaveSecret(ctx context.Context, serviceID, name, content string) error {
	if serviceID == "" {
		return nil
	}

	payload, err := json.Marshal(struct {
		Content string `json:"content"`
	}{Content: content})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/services/%s/secret-files/%s", s.baseURL, url.PathEscape(serviceID), url.PathEscape(name))
	return s.do(ctx, "save", http.MethodPut, endpoint, payload, nil)
}

func (s *RenderSecretStore) do(ctx context.Context, operation, method, endpoint string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("config: secret store %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &SecretStoreError{Operation: operation, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
