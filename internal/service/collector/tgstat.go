// internal/service/collector/tgstat.go

package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"creatorpulse/internal/domain/author"
	"creatorpulse/internal/domain/metrics"
)

// tgstatMaxOffset caps offset pagination; the API refuses to page deeper.
const tgstatMaxOffset = 1000

const tgstatPageLimit = 50

// TGStatProvider collects Telegram channel data through the TGStat API
type TGStatProvider struct {
	baseURL string
	token   string
	client  *resty.Client
}

// NewTGStatProvider creates a new TGStat provider
func NewTGStatProvider(baseURL, token string, timeout time.Duration) *TGStatProvider {
	return &TGStatProvider{
		baseURL: baseURL,
		token:   token,
		client:  resty.New().SetTimeout(timeout),
	}
}

func (p *TGStatProvider) Name() string {
	return "tgstat"
}

func (p *TGStatProvider) Supports(platform string) bool {
	return platform == author.PlatformTelegram
}

type tgstatStatResponse struct {
	Status   string `json:"status"`
	Response struct {
		ParticipantsCount int64  `json:"participants_count"`
		PostsCount        int64  `json:"posts_count"`
		Image640          string `json:"image640"`
	} `json:"response"`
}

type tgstatPostsResponse struct {
	Status   string `json:"status"`
	Response struct {
		TotalCount int `json:"total_count"`
		Items      []struct {
			ID             int64  `json:"id"`
			Date           int64  `json:"date"`
			Views          int64  `json:"views"`
			SharesCount    int64  `json:"shares_count"`
			CommentsCount  int64  `json:"comments_count"`
			ReactionsCount int64  `json:"reactions_count"`
			Link           string `json:"link"`
			Text           string `json:"text"`
		} `json:"items"`
	} `json:"response"`
}

// Fetch reads the channel's stat block and pages through its posts with
// offset pagination inside the window.
func (p *TGStatProvider) Fetch(ctx context.Context, account author.SocialAccount, from, to time.Time) (*metrics.ProfileSnapshot, []metrics.PostRecord, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("token", p.token).
		SetQueryParam("channelId", account.PlatformUserID).
		Get(p.baseURL + "/channels/stat")
	if err != nil {
		return nil, nil, fmt.Errorf("fetching tgstat channel stat: %w", err)
	}
	if resp.IsError() {
		return nil, nil, fmt.Errorf("fetching tgstat channel stat: status %d", resp.StatusCode())
	}

	var stat tgstatStatResponse
	if err := json.Unmarshal(resp.Body(), &stat); err != nil {
		return nil, nil, fmt.Errorf("decoding tgstat stat: %w", err)
	}
	if stat.Status != "ok" {
		return nil, nil, fmt.Errorf("tgstat stat returned status %q", stat.Status)
	}

	snapshot := &metrics.ProfileSnapshot{
		AccountID:      account.ID,
		SnapshotDate:   time.Now(),
		FollowersCount: stat.Response.ParticipantsCount,
		TotalPosts:     stat.Response.PostsCount,
		AvatarURL:      stat.Response.Image640,
	}

	var posts []metrics.PostRecord
	offset := 0

	for {
		resp, err := p.client.R().
			SetContext(ctx).
			SetQueryParam("token", p.token).
			SetQueryParam("channelId", account.PlatformUserID).
			SetQueryParam("startTime", strconv.FormatInt(from.Unix(), 10)).
			SetQueryParam("endTime", strconv.FormatInt(to.Unix(), 10)).
			SetQueryParam("limit", strconv.Itoa(tgstatPageLimit)).
			SetQueryParam("offset", strconv.Itoa(offset)).
			Get(p.baseURL + "/channels/posts")
		if err != nil {
			return nil, nil, fmt.Errorf("fetching tgstat posts: %w", err)
		}
		if resp.IsError() {
			return nil, nil, fmt.Errorf("fetching tgstat posts: status %d", resp.StatusCode())
		}

		var data tgstatPostsResponse
		if err := json.Unmarshal(resp.Body(), &data); err != nil {
			return nil, nil, fmt.Errorf("decoding tgstat posts: %w", err)
		}
		if data.Status != "ok" || len(data.Response.Items) == 0 {
			break
		}

		for _, item := range data.Response.Items {
			published := time.Unix(item.Date, 0)
			if published.Before(from) || published.After(to) {
				continue
			}
			posts = append(posts, metrics.PostRecord{
				AccountID:      account.ID,
				PlatformPostID: fmt.Sprintf("tg_%s_%d", account.PlatformUserID, item.ID),
				Description:    item.Text,
				PublishedAt:    published,
				URL:            item.Link,
				ViewsCount:     item.Views,
				LikesCount:     item.ReactionsCount,
				CommentsCount:  item.CommentsCount,
				SharesCount:    item.SharesCount,
			})
		}

		offset += tgstatPageLimit
		if offset >= data.Response.TotalCount || offset >= tgstatMaxOffset {
			break
		}
	}

	return snapshot, posts, nil
}
