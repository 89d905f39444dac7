package metaclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// TokenResponse representa a resposta da API do Meta ao trocar um token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// DebugTokenResponse é o retorno de /debug_token
type DebugTokenResponse struct {
	Data struct {
		AppID     string `json:"app_id"`
		IsValid   bool   `json:"is_valid"`
		ExpiresAt int64  `json:"expires_at"`
	} `json:"data"`
}

// ExchangeLongLivedToken troca um token de curta duração por um de longa duração
func ExchangeLongLivedToken(ctx context.Context, client *http.Client, token, appID, appSecret, baseURL, version string) (*TokenResponse, error) {
	if token == "" {
		return nil, fmt.Errorf("token de acesso não pode ser vazio")
	}

	params := url.Values{}
	params.Add("grant_type", "fb_exchange_token")
	params.Add("client_id", appID)
	params.Add("client_secret", appSecret)
	params.Add("fb_exchange_token", token)

	endpoint := fmt.Sprintf("%s/%s/oauth/access_token?%s", baseURL, version, params.Encode())

	var tokenResp TokenResponse
	if err := getJSON(ctx, client, endpoint, &tokenResp); err != nil {
		return nil, fmt.Errorf("erro ao obter token de longa duração: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("token retornado pela API é vazio")
	}

	logrus.Infof("meta: long-lived token obtained, expires in %s", time.Duration(tokenResp.ExpiresIn)*time.Second)

	return &tokenResp, nil
}

// DebugToken consulta validade e expiração de um token
func DebugToken(ctx context.Context, client *http.Client, token, appID, appSecret, baseURL, version string) (*DebugTokenResponse, error) {
	params := url.Values{}
	params.Add("input_token", token)
	params.Add("access_token", appID+"|"+appSecret)

	endpoint := fmt.Sprintf("%s/%s/debug_token?%s", baseURL, version, params.Encode())

	var debugResp DebugTokenResponse
	if err := getJSON(ctx, client, endpoint, &debugResp); err != nil {
		return nil, fmt.Errorf("erro ao obter informações de debug do token: %w", err)
	}

	return &debugResp, nil
}

// CalculateTokenExpiration calcula a data de expiração do token com base no tempo de expiração em segundos
func CalculateTokenExpiration(now time.Time, expiresIn int64) time.Time {
	// Renovar um dia antes da expiração real
	buffer := int64(24 * 60 * 60)
	safeExpiresIn := expiresIn - buffer

	if safeExpiresIn < 0 {
		safeExpiresIn = expiresIn / 2
	}

	return now.Add(time.Duration(safeExpiresIn) * time.Second)
}

func getJSON(ctx context.Context, client *http.Client, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return newRequestError(resp.StatusCode, body)
	}

	return json.Unmarshal(body, out)
}
