package services

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
)

// Video is one search result from the video provider.
type Video struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	ID    string `json:"id"`
}

// VideoProvider is the interface for the external video search and
// transcript service.
type VideoProvider interface {
	Search(ctx context.Context, query string) ([]Video, error)
	GetTranscript(ctx context.Context, videoID string) ([]TranscriptFragment, error)
}

const maxSearchResults = 3

// YouTubeClient implements VideoProvider against the YouTube Data API v3
// for search and the timedtext captions endpoint for transcripts.
type YouTubeClient struct {
	APIKey string
	Lang   string
	Client *http.Client
}

func NewYouTubeClient(apiKey, lang string) *YouTubeClient {
	if lang == "" {
		lang = "en"
	}
	return &YouTubeClient{
		APIKey: apiKey,
		Lang:   lang,
		Client: &http.Client{},
	}
}

// Search returns up to 3 videos matching the query.
func (y *YouTubeClient) Search(ctx context.Context, query string) ([]Video, error) {
	params := url.Values{}
	params.Set("part", "id,snippet")
	params.Set("type", "video")
	params.Set("maxResults", fmt.Sprintf("%d", maxSearchResults))
	params.Set("q", query)
	params.Set("key", y.APIKey)

	endpoint := "https://www.googleapis.com/youtube/v3/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := y.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		} `json:"items"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	videos := make([]Video, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, Video{
			Title: item.Snippet.Title,
			URL:   fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.ID.VideoID),
			ID:    item.ID.VideoID,
		})
	}
	return videos, nil
}

// GetTranscript fetches the video's captions as ordered timed fragments.
// Videos without captions surface a TranscriptUnavailableError.
func (y *YouTubeClient) GetTranscript(ctx context.Context, videoID string) ([]TranscriptFragment, error) {
	params := url.Values{}
	params.Set("lang", y.Lang)
	params.Set("v", videoID)

	endpoint := "https://video.google.com/timedtext?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := y.Client.Do(req)
	if err != nil {
		return nil, &TranscriptUnavailableError{VideoID: videoID, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TranscriptUnavailableError{VideoID: videoID, Err: err}
	}

	if resp.StatusCode != http.StatusOK || len(body) == 0 {
		return nil, &TranscriptUnavailableError{VideoID: videoID}
	}

	var doc struct {
		Texts []struct {
			Start float64 `xml:"start,attr"`
			Dur   float64 `xml:"dur,attr"`
			Body  string  `xml:",chardata"`
		} `xml:"text"`
	}
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, &TranscriptUnavailableError{VideoID: videoID, Err: err}
	}
	if len(doc.Texts) == 0 {
		return nil, &TranscriptUnavailableError{VideoID: videoID}
	}

	fragments := make([]TranscriptFragment, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		fragments = append(fragments, TranscriptFragment{
			Text:     html.UnescapeString(t.Body),
			Start:    t.Start,
			Duration: t.Dur,
		})
	}
	return fragments, nil
}
