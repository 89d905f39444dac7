package metaclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/goal-pacing-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/goal-pacing-api/internal/config"
)

// ErrTokenRefreshed indica que o token expirou e foi renovado durante a chamada
var ErrTokenRefreshed = errors.New("token expirado e renovado")

const (
	refreshInterval      = 23 * time.Hour
	refreshRetryInterval = 1 * time.Hour
	proactiveRefreshAt   = 24 * time.Hour
)

// TokenManager gerencia o token de acesso da API do Meta.
// Leituras e renovações do token são protegidas pelo mesmo mutex.
type TokenManager struct {
	meta       config.Meta
	serviceID  string
	mu         sync.RWMutex
	secrets    config.SecretStorage
	httpClient *http.Client
	now        func() time.Time
}

func NewTokenManager(cfg *config.Config, secrets config.SecretStorage) *TokenManager {
	return &TokenManager{
		meta:       cfg.Meta,
		serviceID:  cfg.Render.ServiceID,
		secrets:    secrets,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

func (tm *TokenManager) AccessToken() string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.meta.AccessToken
}

func (tm *TokenManager) ExpiresAt() time.Time {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.meta.TokenExpiresAt
}

// StartAutoRefresh mantém o token renovado até o contexto ser cancelado
func (tm *TokenManager) StartAutoRefresh(ctx context.Context) {
	if err := tm.InitToken(ctx); err != nil {
		logrus.WithError(err).Error("meta: error initializing token")
	}

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logrus.Info("meta: periodic token refresh started")
			if err := tm.RefreshToken(ctx); err != nil {
				logrus.WithError(err).Error("meta: periodic token refresh failed")
				ticker.Reset(refreshRetryInterval)
				continue
			}
			logrus.Info("meta: periodic token refresh finished")
			ticker.Reset(refreshInterval)
		case <-ctx.Done():
			logrus.Info("meta: stopping token auto refresh")
			return
		}
	}
}

// InitToken troca o token configurado por um de longa duração ou valida o existente
func (tm *TokenManager) InitToken(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.meta.LongLivedToken == "" {
		return tm.exchangeLocked(ctx)
	}

	debugInfo, err := DebugToken(ctx, tm.httpClient, tm.meta.LongLivedToken, tm.meta.AppID, tm.meta.AppSecret, tm.meta.BaseURL, tm.meta.Version)
	if err != nil {
		return err
	}

	if !debugInfo.Data.IsValid {
		logrus.Warn("meta: stored long-lived token is invalid, exchanging")
		return tm.exchangeLocked(ctx)
	}

	tm.meta.AccessToken = tm.meta.LongLivedToken
	if debugInfo.Data.ExpiresAt > 0 {
		tm.meta.TokenExpiresAt = time.Unix(debugInfo.Data.ExpiresAt, 0).Add(-proactiveRefreshAt)
	}

	logrus.WithField("expires_at", tm.meta.TokenExpiresAt.Format(time.RFC3339)).Info("meta: long-lived token validated")
	return nil
}

func (tm *TokenManager) RefreshToken(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if !tm.meta.TokenExpiresAt.IsZero() && tm.meta.TokenExpiresAt.Sub(tm.now()) < time.Hour {
		logrus.Warn("meta: token is close to expiration, manual reauthorization may be required")
	}

	return tm.exchangeLocked(ctx)
}

// EnsureValidToken renova o token se estiver perto de expirar
func (tm *TokenManager) EnsureValidToken(ctx context.Context) error {
	tm.mu.RLock()
	token := tm.meta.AccessToken
	expiresAt := tm.meta.TokenExpiresAt
	tm.mu.RUnlock()

	if token == "" {
		return tm.RefreshToken(ctx)
	}

	if !expiresAt.IsZero() && expiresAt.Sub(tm.now()) < proactiveRefreshAt {
		logrus.Info("meta: token expires in less than 24h, refreshing")
		return tm.RefreshToken(ctx)
	}

	return nil
}

// exchangeLocked deve ser chamado com o mutex de escrita
func (tm *TokenManager) exchangeLocked(ctx context.Context) error {
	source := tm.meta.AccessToken
	if source == "" {
		source = tm.meta.LongLivedToken
	}

	tokenResponse, err := ExchangeLongLivedToken(ctx, tm.httpClient, source, tm.meta.AppID, tm.meta.AppSecret, tm.meta.BaseURL, tm.meta.Version)
	if err != nil {
		var reqErr *metadomain.RequestError
		if errors.As(err, &reqErr) && reqErr.IsTokenExpired() {
			return fmt.Errorf("o token de acesso expirou e não pode ser renovado automaticamente, é necessário reautorizar: %w", err)
		}
		return err
	}

	tm.meta.LongLivedToken = tokenResponse.AccessToken
	tm.meta.AccessToken = tokenResponse.AccessToken
	tm.meta.TokenExpiresAt = CalculateTokenExpiration(tm.now(), tokenResponse.ExpiresIn)

	if tm.secrets != nil {
		if err := tm.secrets.SaveSecret(ctx, tm.serviceID, config.MetaAccessTokenSecret, tokenResponse.AccessToken); err != nil {
			logrus.WithError(err).Warn("meta: error persisting refreshed token")
		}
	}

	logrus.WithField("expires_at", tm.meta.TokenExpiresAt.Format(time.RFC3339)).Info("meta: long-lived token updated")
	return nil
}

// HandleResponse lê o corpo e converte respostas de erro em *RequestError.
// Token expirado dispara uma renovação e o erro passa a conter ErrTokenRefreshed.
func (tm *TokenManager) HandleResponse(ctx context.Context, resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	reqErr := newRequestError(resp.StatusCode, body)
	if !reqErr.IsTokenExpired() {
		return nil, reqErr
	}

	logrus.WithFields(logrus.Fields{
		"code":    reqErr.Response.Error.Code,
		"subcode": reqErr.Response.Error.ErrorSubcode,
	}).Warn("meta: expired token detected")

	if refreshErr := tm.RefreshToken(ctx); refreshErr != nil {
		return nil, errors.Join(reqErr, refreshErr)
	}

	return nil, errors.Join(ErrTokenRefreshed, reqErr)
}

func newRequestError(statusCode int, body []byte) *metadomain.RequestError {
	reqErr := &metadomain.RequestError{
		StatusCode: statusCode,
		Body:       body,
	}

	var errorResp metadomain.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
		reqErr.Response = &errorResp
	}

	return reqErr
}
