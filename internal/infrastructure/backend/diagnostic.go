package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
)

// AnalyzeInventory asks the estimator how many days a water stockpile
// lasts for a household.
func (c *Client) AnalyzeInventory(ctx context.Context, waterLiters float64, persons int) (assessment.DiagnosticResult, error) {
	q := url.Values{}
	q.Set("water_l", strconv.FormatFloat(waterLiters, 'f', -1, 64))
	q.Set("meals", "0")
	q.Set("toilet_bags", "0")
	q.Set("persons", strconv.Itoa(persons))

	var result assessment.DiagnosticResult
	if err := c.postJSON(ctx, "/inventory/analyze?"+q.Encode(), nil, &result); err != nil {
		return assessment.DiagnosticResult{}, err
	}
	return result, nil
}

type photoResponse struct {
	Counts struct {
		Water500ml int `json:"water_500ml"`
		Water2l    int `json:"water_2l"`
	} `json:"counts"`
	TotalL        *float64 `json:"total_l"`
	EstimatedDays *float64 `json:"estimated_days"`
	VisualPath    string   `json:"visual_path"`
	ImageURL      string   `json:"image_url"`
	ResultURL     string   `json:"result_url"`
}

// AnalyzePhoto uploads a stockpile photo to the analyzer and returns the
// detected bottle counts. The visualization reference is resolved to an
// absolute URL against the backend base.
func (c *Client) AnalyzePhoto(ctx context.Context, image []byte, filename string, persons int, confThresh float64) (assessment.PhotoDetection, error) {
	const path = "/inventory/photo"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return assessment.PhotoDetection{}, &RemoteError{Endpoint: path, Err: fmt.Errorf("build multipart: %w", err)}
	}
	if _, err := part.Write(image); err != nil {
		return assessment.PhotoDetection{}, &RemoteError{Endpoint: path, Err: fmt.Errorf("build multipart: %w", err)}
	}
	if err := writer.WriteField("persons", strconv.Itoa(persons)); err != nil {
		return assessment.PhotoDetection{}, &RemoteError{Endpoint: path, Err: fmt.Errorf("build multipart: %w", err)}
	}
	if err := writer.WriteField("conf_thresh", strconv.FormatFloat(confThresh, 'f', -1, 64)); err != nil {
		return assessment.PhotoDetection{}, &RemoteError{Endpoint: path, Err: fmt.Errorf("build multipart: %w", err)}
	}
	if err := writer.Close(); err != nil {
		return assessment.PhotoDetection{}, &RemoteError{Endpoint: path, Err: fmt.Errorf("build multipart: %w", err)}
	}

	var resp photoResponse
	if err := c.do(ctx, http.MethodPost, path, &buf, writer.FormDataContentType(), "", &resp); err != nil {
		return assessment.PhotoDetection{}, err
	}

	visual := resp.VisualPath
	if visual == "" {
		visual = resp.ImageURL
	}
	if visual == "" {
		visual = resp.ResultURL
	}

	return assessment.PhotoDetection{
		Bottles500:       resp.Counts.Water500ml,
		Bottles2L:        resp.Counts.Water2l,
		TotalLiters:      resp.TotalL,
		EstimatedDays:    resp.EstimatedDays,
		VisualizationRef: c.AbsoluteURL(visual),
	}, nil
}
