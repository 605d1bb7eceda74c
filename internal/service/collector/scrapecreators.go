// internal/service/collector/scrapecreators.go

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

// ScrapeCreatorsProvider collects TikTok, Instagram and YouTube data through
// the ScrapeCreators API
type ScrapeCreatorsProvider struct {
	baseURL string
	client  *resty.Client
}

// NewScrapeCreatorsProvider creates a new ScrapeCreators provider
func NewScrapeCreatorsProvider(baseURL, apiKey string, timeout time.Duration) *ScrapeCreatorsProvider {
	return &ScrapeCreatorsProvider{
		baseURL: baseURL,
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("x-api-key", apiKey),
	}
}

func (p *ScrapeCreatorsProvider) Name() string {
	return "scrapecreators"
}

func (p *ScrapeCreatorsProvider) Supports(platform string) bool {
	switch platform {
	case author.PlatformTikTok, author.PlatformInstagram,
		author.PlatformYouTube, author.PlatformYouTubeShorts:
		return true
	}
	return false
}

// Fetch dispatches to the platform endpoint
func (p *ScrapeCreatorsProvider) Fetch(ctx context.Context, account author.SocialAccount, from, to time.Time) (*metrics.ProfileSnapshot, []metrics.PostRecord, error) {
	switch account.Platform {
	case author.PlatformTikTok:
		return p.fetchTikTok(ctx, account, from, to)
	case author.PlatformInstagram:
		return p.fetchInstagram(ctx, account, from, to)
	case author.PlatformYouTube:
		return p.fetchYouTube(ctx, account, from, to, false)
	case author.PlatformYouTubeShorts:
		return p.fetchYouTube(ctx, account, from, to, true)
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, account.Platform)
}

type tiktokVideosResponse struct {
	Success          bool   `json:"success"`
	CreditsRemaining int    `json:"credits_remaining"`
	HasMore          int    `json:"has_more"`
	MaxCursor        int64  `json:"max_cursor"`
	AwemeList        []struct {
		AwemeID    string `json:"aweme_id"`
		Desc       string `json:"desc"`
		CreateTime int64  `json:"create_time"`
		ShareURL   string `json:"share_url"`
		Duration   int64  `json:"duration"`
		Author     struct {
			UniqueID       string `json:"unique_id"`
			FollowerCount  int64  `json:"follower_count"`
			FollowingCount int64  `json:"following_count"`
			AwemeCount     int64  `json:"aweme_count"`
		} `json:"author"`
		Statistics struct {
			PlayCount    int64 `json:"play_count"`
			DiggCount    int64 `json:"digg_count"`
			CommentCount int64 `json:"comment_count"`
			ShareCount   int64 `json:"share_count"`
			CollectCount int64 `json:"collect_count"`
		} `json:"statistics"`
	} `json:"aweme_list"`
}

// fetchTikTok pages through the profile's videos newest-first, stopping once
// the feed drops below the window start. The profile snapshot comes from the
// first video's embedded author block.
func (p *ScrapeCreatorsProvider) fetchTikTok(ctx context.Context, account author.SocialAccount, from, to time.Time) (*metrics.ProfileSnapshot, []metrics.PostRecord, error) {
	var snapshot *metrics.ProfileSnapshot
	var posts []metrics.PostRecord
	var maxCursor int64

	for {
		req := p.client.R().
			SetContext(ctx).
			SetQueryParam("user_id", account.PlatformUserID).
			SetQueryParam("sort_by", "latest")
		if maxCursor != 0 {
			req.SetQueryParam("max_cursor", strconv.FormatInt(maxCursor, 10))
		}

		resp, err := req.Get(p.baseURL + "/v3/tiktok/profile/videos")
		if err != nil {
			return nil, nil, fmt.Errorf("fetching tiktok videos: %w", err)
		}
		if resp.IsError() {
			return nil, nil, fmt.Errorf("fetching tiktok videos: status %d", resp.StatusCode())
		}

		var data tiktokVideosResponse
		if err := json.Unmarshal(resp.Body(), &data); err != nil {
			return nil, nil, fmt.Errorf("decoding tiktok response: %w", err)
		}
		if !data.Success || len(data.AwemeList) == 0 {
			break
		}

		if snapshot == nil {
			a := data.AwemeList[0].Author
			snapshot = &metrics.ProfileSnapshot{
				AccountID:      account.ID,
				SnapshotDate:   time.Now(),
				FollowersCount: a.FollowerCount,
				FollowingCount: a.FollowingCount,
				TotalPosts:     a.AwemeCount,
			}
		}

		reachedStart := false
		for _, aweme := range data.AwemeList {
			published := time.Unix(aweme.CreateTime, 0)
			if published.Before(from) {
				reachedStart = true
				break
			}
			if published.After(to) {
				continue
			}
			saves := aweme.Statistics.CollectCount
			posts = append(posts, metrics.PostRecord{
				AccountID:      account.ID,
				PlatformPostID: aweme.AwemeID,
				Description:    aweme.Desc,
				PublishedAt:    published,
				URL:            aweme.ShareURL,
				DurationMS:     aweme.Duration,
				ViewsCount:     aweme.Statistics.PlayCount,
				LikesCount:     aweme.Statistics.DiggCount,
				CommentsCount:  aweme.Statistics.CommentCount,
				SharesCount:    aweme.Statistics.ShareCount,
				SavesCount:     &saves,
			})
		}

		if reachedStart || data.HasMore == 0 || data.MaxCursor == 0 {
			break
		}
		maxCursor = data.MaxCursor
	}

	return snapshot, posts, nil
}

type instagramProfileResponse struct {
	Data struct {
		User struct {
			FollowerCount  int64  `json:"follower_count"`
			FollowingCount int64  `json:"following_count"`
			MediaCount     int64  `json:"media_count"`
			ProfilePicURL  string `json:"profile_pic_url_hd"`
		} `json:"user"`
	} `json:"data"`
}

type instagramPostsResponse struct {
	Items []struct {
		Code         string `json:"code"`
		TakenAt      int64  `json:"taken_at"`
		Caption      struct {
			Text string `json:"text"`
		} `json:"caption"`
		PlayCount    int64 `json:"play_count"`
		LikeCount    int64 `json:"like_count"`
		CommentCount int64 `json:"comment_count"`
		ReshareCount int64 `json:"reshare_count"`
	} `json:"items"`
	MoreAvailable bool   `json:"more_available"`
	NextMaxID     string `json:"next_max_id"`
}

func (p *ScrapeCreatorsProvider) fetchInstagram(ctx context.Context, account author.SocialAccount, from, to time.Time) (*metrics.ProfileSnapshot, []metrics.PostRecord, error) {
	handle := account.Username
	if handle == "" {
		handle = account.PlatformUserID
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("handle", handle).
		Get(p.baseURL + "/v1/instagram/profile")
	if err != nil {
		return nil, nil, fmt.Errorf("fetching instagram profile: %w", err)
	}
	if resp.IsError() {
		return nil, nil, fmt.Errorf("fetching instagram profile: status %d", resp.StatusCode())
	}

	var profile instagramProfileResponse
	if err := json.Unmarshal(resp.Body(), &profile); err != nil {
		return nil, nil, fmt.Errorf("decoding instagram profile: %w", err)
	}

	snapshot := &metrics.ProfileSnapshot{
		AccountID:      account.ID,
		SnapshotDate:   time.Now(),
		FollowersCount: profile.Data.User.FollowerCount,
		FollowingCount: profile.Data.User.FollowingCount,
		TotalPosts:     profile.Data.User.MediaCount,
		AvatarURL:      profile.Data.User.ProfilePicURL,
	}

	var posts []metrics.PostRecord
	nextMaxID := ""

	for {
		req := p.client.R().
			SetContext(ctx).
			SetQueryParam("handle", handle)
		if nextMaxID != "" {
			req.SetQueryParam("next_max_id", nextMaxID)
		}

		resp, err := req.Get(p.baseURL + "/v2/instagram/user/posts")
		if err != nil {
			return nil, nil, fmt.Errorf("fetching instagram posts: %w", err)
		}
		if resp.IsError() {
			return nil, nil, fmt.Errorf("fetching instagram posts: status %d", resp.StatusCode())
		}

		var data instagramPostsResponse
		if err := json.Unmarshal(resp.Body(), &data); err != nil {
			return nil, nil, fmt.Errorf("decoding instagram posts: %w", err)
		}
		if len(data.Items) == 0 {
			break
		}

		reachedStart := false
		for _, item := range data.Items {
			published := time.Unix(item.TakenAt, 0)
			if published.Before(from) {
				reachedStart = true
				break
			}
			if published.After(to) {
				continue
			}
			posts = append(posts, metrics.PostRecord{
				AccountID:      account.ID,
				PlatformPostID: item.Code,
				Description:    item.Caption.Text,
				PublishedAt:    published,
				URL:            "https://www.instagram.com/p/" + item.Code + "/",
				ViewsCount:     item.PlayCount,
				LikesCount:     item.LikeCount,
				CommentsCount:  item.CommentCount,
				SharesCount:    item.ReshareCount,
			})
		}

		if reachedStart || !data.MoreAvailable || data.NextMaxID == "" {
			break
		}
		nextMaxID = data.NextMaxID
	}

	return snapshot, posts, nil
}

type youtubeChannelResponse struct {
	SubscriberCount int64 `json:"subscriberCount"`
	VideoCount      int64 `json:"videoCount"`
	Avatar          struct {
		Thumbnails []struct {
			URL string `json:"url"`
		} `json:"thumbnails"`
	} `json:"avatar"`
}

type youtubeVideosResponse struct {
	Videos []struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		URL          string `json:"url"`
		PublishedAt  string `json:"publishedAt"`
		LengthMS     int64  `json:"lengthMilliseconds"`
		ViewCount    int64  `json:"viewCountInt"`
		LikeCount    int64  `json:"likeCountInt"`
		CommentCount int64  `json:"commentCountInt"`
	} `json:"videos"`
	ContinuationToken string `json:"continuationToken"`
}

func (p *ScrapeCreatorsProvider) fetchYouTube(ctx context.Context, account author.SocialAccount, from, to time.Time, shorts bool) (*metrics.ProfileSnapshot, []metrics.PostRecord, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("channelId", account.PlatformUserID).
		Get(p.baseURL + "/v1/youtube/channel")
	if err != nil {
		return nil, nil, fmt.Errorf("fetching youtube channel: %w", err)
	}
	if resp.IsError() {
		return nil, nil, fmt.Errorf("fetching youtube channel: status %d", resp.StatusCode())
	}

	var channel youtubeChannelResponse
	if err := json.Unmarshal(resp.Body(), &channel); err != nil {
		return nil, nil, fmt.Errorf("decoding youtube channel: %w", err)
	}

	snapshot := &metrics.ProfileSnapshot{
		AccountID:      account.ID,
		SnapshotDate:   time.Now(),
		FollowersCount: channel.SubscriberCount,
		TotalPosts:     channel.VideoCount,
	}
	if thumbs := channel.Avatar.Thumbnails; len(thumbs) > 0 {
		snapshot.AvatarURL = thumbs[len(thumbs)-1].URL
	}

	endpoint := p.baseURL + "/v1/youtube/channel-videos"
	if shorts {
		endpoint = p.baseURL + "/v1/youtube/channel-shorts"
	}

	var posts []metrics.PostRecord
	continuation := ""

	for {
		req := p.client.R().
			SetContext(ctx).
			SetQueryParam("channelId", account.PlatformUserID)
		if continuation != "" {
			req.SetQueryParam("continuationToken", continuation)
		}

		resp, err := req.Get(endpoint)
		if err != nil {
			return nil, nil, fmt.Errorf("fetching youtube videos: %w", err)
		}
		if resp.IsError() {
			return nil, nil, fmt.Errorf("fetching youtube videos: status %d", resp.StatusCode())
		}

		var data youtubeVideosResponse
		if err := json.Unmarshal(resp.Body(), &data); err != nil {
			return nil, nil, fmt.Errorf("decoding youtube videos: %w", err)
		}
		if len(data.Videos) == 0 {
			break
		}

		reachedStart := false
		for _, video := range data.Videos {
			published, err := time.Parse(time.RFC3339, video.PublishedAt)
			if err != nil {
				continue
			}
			if published.Before(from) {
				reachedStart = true
				break
			}
			if published.After(to) {
				continue
			}
			posts = append(posts, metrics.PostRecord{
				AccountID:      account.ID,
				PlatformPostID: video.ID,
				Description:    video.Title,
				PublishedAt:    published,
				URL:            video.URL,
				DurationMS:     video.LengthMS,
				ViewsCount:     video.ViewCount,
				LikesCount:     video.LikeCount,
				CommentsCount:  video.CommentCount,
			})
		}

		if reachedStart || data.ContinuationToken == "" {
			break
		}
		continuation = data.ContinuationToken
	}

	return snapshot, posts, nil
}
