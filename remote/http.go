package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
	"github.com/akinalp/gallery/pkg/promparse"
	"github.com/akinalp/gallery/store"
	"github.com/akinalp/gallery/views"
)

// StatusError, server'ın 2xx dışı bir status ile döndüğü hata zarfı.
// RetryAfter, 429 yanıtlarındaki Retry-After header'ı (saniye, yoksa 0).
type StatusError struct {
	Code       int
	Message    string
	RetryAfter int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// HTTPClient, gallery server'ının JSON API'si ile konuşan Remote implementasyonu.
// Aynı zamanda views.PageFetcher'ı karşılar.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// ClientOption, HTTPClient'ı yapılandıran fonksiyonel opsiyon.
type ClientOption func(*HTTPClient)

// WithHTTPClient, altta kullanılan *http.Client'ı değiştirir (test, özel transport).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// WithToken, Authorization header'ında taşınacak access token'ı ayarlar.
func WithToken(token string) ClientOption {
	return func(c *HTTPClient) {
		c.token = token
	}
}

// NewHTTPClient, baseURL'e (ör. "http://localhost:9090") bağlanan bir client oluşturur.
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken, login sonrası token'ı günceller.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) Admire(ctx context.Context, postID string) (AdmireResult, error) {
	var p models.MutationPayload
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/admire", nil, &p); err != nil {
		return nil, err
	}
	return DecodeAdmire(p), nil
}

func (c *HTTPClient) Unadmire(ctx context.Context, postID string) (UnadmireResult, error) {
	var p models.MutationPayload
	if err := c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(postID)+"/admire", nil, &p); err != nil {
		return nil, err
	}
	return DecodeUnadmire(p), nil
}

func (c *HTTPClient) Follow(ctx context.Context, userID string) (FollowResult, error) {
	var p models.MutationPayload
	if err := c.do(ctx, http.MethodPost, "/api/users/"+url.PathEscape(userID)+"/follow", nil, &p); err != nil {
		return nil, err
	}
	return DecodeFollow(p), nil
}

func (c *HTTPClient) Unfollow(ctx context.Context, userID string) (FollowResult, error) {
	var p models.MutationPayload
	if err := c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(userID)+"/follow", nil, &p); err != nil {
		return nil, err
	}
	return DecodeUnfollow(p), nil
}

func (c *HTTPClient) BulkFollow(ctx context.Context, userIDs []string) (BulkFollowResult, error) {
	var p models.MutationPayload
	body := models.BulkFollowRequest{UserIDs: userIDs}
	if err := c.do(ctx, http.MethodPost, "/api/follows/bulk", body, &p); err != nil {
		return nil, err
	}
	return DecodeBulkFollow(p), nil
}

// FetchPage, bir koleksiyonun sayfasını getirir (views.PageFetcher).
func (c *HTTPClient) FetchPage(ctx context.Context, key views.CollectionKey, req views.PageRequest) (views.Page, error) {
	q := url.Values{}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Before != "" {
		q.Set("before", req.Before)
	}
	target := url.PathEscape(key.TargetID)

	switch key.Kind {
	case views.CollectionAdmires:
		var conn models.Connection[models.Admire]
		if err := c.do(ctx, http.MethodGet, "/api/posts/"+target+"/admires?"+q.Encode(), nil, &conn); err != nil {
			return views.Page{}, err
		}
		return toPage(conn, AdmireEntity), nil
	case views.CollectionComments:
		var conn models.Connection[models.Comment]
		if err := c.do(ctx, http.MethodGet, "/api/posts/"+target+"/comments?"+q.Encode(), nil, &conn); err != nil {
			return views.Page{}, err
		}
		return toPage(conn, CommentEntity), nil
	case views.CollectionFollowers:
		var conn models.Connection[models.Follow]
		if err := c.do(ctx, http.MethodGet, "/api/users/"+target+"/followers?"+q.Encode(), nil, &conn); err != nil {
			return views.Page{}, err
		}
		return toPage(conn, FollowEntity), nil
	default:
		return views.Page{}, fmt.Errorf("unknown collection kind %q", key.Kind)
	}
}

func toPage[T any](conn models.Connection[T], convert func(T) store.Entity) views.Page {
	edges := make([]store.Entity, 0, len(conn.Edges))
	for _, e := range conn.Edges {
		edges = append(edges, convert(e))
	}
	return views.Page{
		Edges: edges,
		PageInfo: views.PageInfo{
			Total:           conn.PageInfo.Total,
			StartCursor:     conn.PageInfo.StartCursor,
			HasPreviousPage: conn.PageInfo.HasPreviousPage,
		},
	}
}

// Login, kullanıcı adı ve şifreyle giriş yapar ve token'ı client'a kaydeder.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (models.AuthResponse, error) {
	var resp models.AuthResponse
	body := models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return resp, err
	}
	c.SetToken(resp.AccessToken)
	return resp, nil
}

// Me, oturum sahibinin profilini ve takip listesini getirir.
func (c *HTTPClient) Me(ctx context.Context) (models.Me, error) {
	var me models.Me
	err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &me)
	return me, err
}

// Post, tek bir post'u (ve oturum sahibinin admire'ını) getirir.
func (c *HTTPClient) Post(ctx context.Context, postID string) (models.Post, error) {
	var p models.Post
	err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(postID), nil, &p)
	return p, err
}

// Metrics, server'ın /metrics çıktısını okur. Endpoint JSON zarfı kullanmaz.
func (c *HTTPClient) Metrics(ctx context.Context) (*promparse.Metrics, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/metrics", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET /metrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Message: "metrics unavailable"}
	}
	return promparse.Parse(resp.Body)
}

// do, isteği gönderir ve pkg.APIResponse zarfını out'a açar.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env pkg.Envelope[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: failed to decode response (status %d): %w", method, path, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &StatusError{Code: resp.StatusCode, Message: env.Error, RetryAfter: retryAfter}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode data: %w", method, path, err)
	}
	return nil
}
