package metaclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/goal-pacing-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/goal-pacing-api/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	adsetFields         = "id,name,campaign_id,daily_budget,lifetime_budget,status"
	adsetInsightsFields = "adset_id,spend,actions"
	maxInsightPages     = 50
)

type Client interface {
	GetAdset(ctx context.Context, adsetID string) (*metadomain.Adset, error)
	UpdateAdset(ctx context.Context, adsetID string, params url.Values) error
	GetAdsetInsights(ctx context.Context, adsetID string, since, until time.Time) ([]metadomain.AdsetInsight, error)
}

type MetaClient struct {
	Cfg          *config.Config
	TokenManager *TokenManager
	HTTPClient   *http.Client
}

func NewClient(cfg *config.Config, tokenManager *TokenManager) *MetaClient {
	return &MetaClient{
		Cfg:          cfg,
		TokenManager: tokenManager,
		HTTPClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *MetaClient) GetAdset(ctx context.Context, adsetID string) (*metadomain.Adset, error) {
	params := url.Values{}
	params.Set("fields", adsetFields)

	var adset metadomain.Adset
	if err := c.get(ctx, c.endpoint(adsetID), params, &adset); err != nil {
		return nil, err
	}

	return &adset, nil
}

// UpdateAdset envia a alteração uma única vez. Mutação nunca é repetida,
// nem mesmo após renovação do token.
func (c *MetaClient) UpdateAdset(ctx context.Context, adsetID string, params url.Values) error {
	if err := c.TokenManager.EnsureValidToken(ctx); err != nil {
		logrus.WithError(err).Warn("meta: error ensuring valid token before update")
	}

	form := url.Values{}
	for key, values := range params {
		form[key] = values
	}
	form.Set("access_token", c.TokenManager.AccessToken())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(adsetID), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("erro ao criar requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := c.TokenManager.HandleResponse(ctx, resp)
	if err != nil {
		return err
	}

	var updateResp metadomain.UpdateResponse
	if err := json.Unmarshal(body, &updateResp); err != nil {
		return fmt.Errorf("erro ao decodificar resposta: %w", err)
	}

	if !updateResp.Success {
		return &metadomain.RequestError{StatusCode: resp.StatusCode, Body: body}
	}

	return nil
}

// GetAdsetInsights retorna uma linha por dia entre since e until, seguindo a paginação
func (c *MetaClient) GetAdsetInsights(ctx context.Context, adsetID string, since, until time.Time) ([]metadomain.AdsetInsight, error) {
	timeRange, err := json.Marshal(map[string]string{
		"since": since.Format(time.DateOnly),
		"until": until.Format(time.DateOnly),
	})
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("fields", adsetInsightsFields)
	params.Set("level", "adset")
	params.Set("time_increment", "1")
	params.Set("time_range", string(timeRange))

	insights := make([]metadomain.AdsetInsight, 0)
	next := c.endpoint(adsetID, "insights")

	for page := 0; next != "" && page < maxInsightPages; page++ {
		var resp metadomain.AdsetInsightsResponse
		if err := c.get(ctx, next, params, &resp); err != nil {
			return nil, err
		}

		insights = append(insights, resp.Data...)

		// a URL de próxima página já carrega os parâmetros
		next = resp.Paging.Next
		params = nil
	}

	if next != "" {
		logrus.WithField("adset_id", adsetID).Warn("meta: insights pagination truncated")
	}

	return insights, nil
}

func (c *MetaClient) endpoint(parts ...string) string {
	return strings.TrimRight(c.Cfg.Meta.URL, "/") + "/" + strings.Join(parts, "/")
}

// get repete a chamada uma vez quando o token foi renovado durante a resposta
func (c *MetaClient) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.TokenManager.EnsureValidToken(ctx); err != nil {
		logrus.WithError(err).Warn("meta: error ensuring valid token")
	}

	err := c.doGet(ctx, endpoint, params, out)
	if errors.Is(err, ErrTokenRefreshed) {
		logrus.WithField("endpoint", endpoint).Info("meta: retrying request after token refresh")
		err = c.doGet(ctx, endpoint, params, out)
	}

	return err
}

func (c *MetaClient) doGet(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("erro ao montar URL: %w", err)
	}

	query := reqURL.Query()
	for key, values := range params {
		query[key] = values
	}
	query.Set("access_token", c.TokenManager.AccessToken())
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("erro ao criar requisição: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := c.TokenManager.HandleResponse(ctx, resp)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("erro ao decodificar resposta: %w", err)
	}

	return nil
}
