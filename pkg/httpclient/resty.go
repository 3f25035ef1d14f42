package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

type Options struct {
	BaseURL string
	Timeout time.Duration
	// QueryParams are sent with every request, e.g. an api-key.
	QueryParams map[string]string
	Headers     map[string]string
	RetryCount  int
}

type RestyClient struct {
	client *resty.Client
}

func New(opts Options) HTTPClient {
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(opts.RetryCount)

	if len(opts.QueryParams) > 0 {
		client.SetQueryParams(opts.QueryParams)
	}
	if len(opts.Headers) > 0 {
		client.SetHeaders(opts.Headers)
	}

	return &RestyClient{client: client}
}

func (rc *RestyClient) Get(ctx context.Context, endpoint string, queryParams map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.client.R().SetContext(ctx).SetResult(result)
	if queryParams != nil {
		req.SetQueryParams(queryParams)
	}

	resp, err := req.Get(endpoint)
	return toBaseResponse(resp, err)
}

func (rc *RestyClient) Post(ctx context.Context, endpoint string, body interface{}, result interface{}) (*BaseResponse, error) {
	resp, err := rc.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(result).
		Post(endpoint)
	return toBaseResponse(resp, err)
}

func toBaseResponse(resp *resty.Response, err error) (*BaseResponse, error) {
	if err != nil {
		return nil, err
	}

	base := &BaseResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}
	if resp.IsError() {
		return base, &StatusError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return base, nil
}
