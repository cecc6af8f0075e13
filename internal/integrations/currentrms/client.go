package currentrms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
)

const (
	headerSubdomain = "X-SUBDOMAIN"
	headerAuthToken = "X-AUTH-TOKEN"

	// maxPages защита от бесконечной пагинации при некорректной meta
	maxPages = 1000
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics учет запросов к Current RMS
type Metrics interface {
	IncCRMRequest(resource string, err error)
}

// Options параметры клиента
type Options struct {
	BaseURL        string
	Subdomain      string
	AuthToken      string
	Timeout        time.Duration
	PerPage        int
	MaxRetries     uint64
	RetryBaseDelay time.Duration
}

// Client клиент для работы с Current RMS API
type Client struct {
	baseURL    string
	subdomain  string
	authToken  string
	perPage    int
	maxRetries uint64
	retryDelay time.Duration
	httpClient *http.Client
	log        Logger
	metrics    Metrics
}

// NewClient создает новый экземпляр клиента Current RMS
func NewClient(opts Options, log Logger, metrics Metrics) *Client {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 25
	}
	retryDelay := opts.RetryBaseDelay
	if retryDelay <= 0 {
		retryDelay = 500 * time.Millisecond
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		subdomain:  opts.Subdomain,
		authToken:  opts.AuthToken,
		perPage:    perPage,
		maxRetries: opts.MaxRetries,
		retryDelay: retryDelay,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		log:     log,
		metrics: metrics,
	}
}

// GetOpportunities получает все заявки группы статусов, отсортированные по starts_at.
// Читает страницы, пока meta.total_row_count > per_page * page.
func (c *Client) GetOpportunities(ctx context.Context, filter domain.OpportunityFilter) ([]*domain.Opportunity, error) {
	params := url.Values{}
	params.Set("q[state_eq]", strconv.Itoa(filter.Group.State))
	params.Set("q[status_eq]", strconv.Itoa(filter.Group.Status))
	params.Add("q[s][]", "starts_at asc")
	if filter.OwnerName != nil {
		params.Set("q[owner_name_eq]", *filter.OwnerName)
	}

	result := make([]*domain.Opportunity, 0)
	err := c.paginate(ctx, "opportunities", "/opportunities", params, func(body []byte) (Meta, error) {
		var resp opportunitiesResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return Meta{}, err
		}
		for i := range resp.Opportunities {
			result = append(result, c.toDomainOpportunity(&resp.Opportunities[i]))
		}
		return resp.Meta, nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("Fetched %d %s opportunities (state=%d, status=%d)",
		len(result), filter.Group.Name, filter.Group.State, filter.Group.Status)
	return result, nil
}

// GetOpportunityItems получает все позиции заявки
func (c *Client) GetOpportunityItems(ctx context.Context, opportunityID int64) ([]domain.LineItem, error) {
	path := fmt.Sprintf("/opportunities/%d/opportunity_items", opportunityID)

	result := make([]domain.LineItem, 0)
	err := c.paginate(ctx, "opportunity_items", path, url.Values{}, func(body []byte) (Meta, error) {
		var resp opportunityItemsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return Meta{}, err
		}
		for _, it := range resp.OpportunityItems {
			if !it.Quantity.Valid && it.Quantity.Raw != "" {
				c.log.Warn("Opportunity id=%d item id=%d has invalid quantity %q, using 0",
					opportunityID, it.ID, it.Quantity.Raw)
			}
			result = append(result, domain.LineItem{
				ID:       it.ID,
				Name:     it.Name,
				Quantity: it.Quantity.Value,
			})
		}
		return resp.Meta, nil
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, err
	}

	return result, nil
}

// GetProducts получает товары группы (filtermode=active и т.п.)
func (c *Client) GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	params := url.Values{}
	if filter.FilterMode != "" {
		params.Set("filtermode", filter.FilterMode)
	}
	if filter.ProductGroup != "" {
		params.Set("q[product_group_name_eq]", filter.ProductGroup)
	}

	result := make([]domain.Product, 0)
	err := c.paginate(ctx, "products", "/products", params, func(body []byte) (Meta, error) {
		var resp productsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return Meta{}, err
		}
		for _, p := range resp.Products {
			group := filter.ProductGroup
			if p.ProductGroup != nil {
				group = p.ProductGroup.Name
			}
			result = append(result, domain.Product{ID: p.ID, Name: p.Name, Group: group})
		}
		return resp.Meta, nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("Fetched %d products (group=%q, filtermode=%q)", len(result), filter.ProductGroup, filter.FilterMode)
	return result, nil
}

// GetMembers получает пользователей Current RMS (filtermode=user)
func (c *Client) GetMembers(ctx context.Context, filterMode string) ([]Member, error) {
	params := url.Values{}
	if filterMode != "" {
		params.Set("filtermode", filterMode)
	}

	result := make([]Member, 0)
	err := c.paginate(ctx, "members", "/members", params, func(body []byte) (Meta, error) {
		var resp membersResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return Meta{}, err
		}
		result = append(result, resp.Members...)
		return resp.Meta, nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

var errNotFound = errors.New("not found")

type nopMetrics struct{}

func (nopMetrics) IncCRMRequest(string, error) {}

// paginate запрашивает страницы, начиная с первой, и передает тело каждой в handle
func (c *Client) paginate(
	ctx context.Context,
	resource, path string,
	params url.Values,
	handle func(body []byte) (Meta, error),
) error {
	for page := 1; page <= maxPages; page++ {
		q := url.Values{}
		for k, v := range params {
			q[k] = append([]string(nil), v...)
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(c.perPage))

		body, err := c.getWithRetry(ctx, resource, path, q)
		c.metrics.IncCRMRequest(resource, err)
		if err != nil {
			return err
		}

		meta, err := handle(body)
		if err != nil {
			return fmt.Errorf("%w: failed to decode %s page %d: %v", ErrInvalidResponse, resource, page, err)
		}

		if !meta.HasMore() {
			return nil
		}
	}

	return fmt.Errorf("%w: %s exceeded %d pages", ErrInvalidResponse, resource, maxPages)
}

// getWithRetry выполняет GET, повторяя запрос при сетевых ошибках, 429 и 5xx
func (c *Client) getWithRetry(ctx context.Context, resource, path string, q url.Values) ([]byte, error) {
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryDelay))

	var body []byte
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		var err error
		body, err = c.get(ctx, path, q)
		if err == nil {
			return nil
		}

		var transient *transientError
		if errors.As(err, &transient) {
			c.log.Warn("Current RMS %s request failed (attempt %d): %v", resource, attempt, err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		var transient *transientError
		if errors.As(err, &transient) {
			c.log.Error("Current RMS unavailable for %s after %d attempts: %v", resource, attempt, err)
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}

	return body, nil
}

// transientError ошибка, после которой имеет смысл повторить запрос
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerSubdomain, c.subdomain)
	req.Header.Set(headerAuthToken, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, ctx.Err())
		}
		return nil, &transientError{err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transientError{err: fmt.Errorf("failed to read response body: %w", err)}
	}

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, errNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &transientError{err: fmt.Errorf("unexpected status code %d", resp.StatusCode)}
	default:
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}
}

func (c *Client) toDomainOpportunity(o *Opportunity) *domain.Opportunity {
	weight := 0.0
	if o.WeightTotal.Valid {
		weight = domain.RoundWeight(o.WeightTotal.Value)
	} else if o.WeightTotal.Raw != "" {
		c.log.Warn("Opportunity %s has invalid weight_total %q, using 0", o.Number, o.WeightTotal.Raw)
	}

	res := &domain.Opportunity{
		ID:               o.ID,
		Number:           o.Number,
		Subject:          o.Subject,
		State:            o.State,
		Status:           o.Status,
		Tags:             o.TagList,
		StartsAt:         o.StartsAt,
		EndsAt:           o.EndsAt,
		LoadStartsAt:     o.LoadStartsAt,
		DeliverStartsAt:  o.DeliverStartsAt,
		UnloadStartsAt:   o.UnloadStartsAt,
		CollectStartsAt:  o.CollectStartsAt,
		WeightTotal:      weight,
		DryHire:          o.CustomFieldYes("dry_hire"),
		DryHireTransport: o.CustomFieldYes("dry_hire_transport"),
	}
	if o.Owner != nil {
		res.OwnerName = o.Owner.Name
	}
	if o.Member != nil {
		res.ClientName = o.Member.Name
	}
	if o.Venue != nil {
		res.VenueName = o.Venue.Name
	}
	return res
}
