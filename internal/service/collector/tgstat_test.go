// internal/service/collector/tgstat_test.go

package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creatorpulse/internal/domain/author"
)

func TestTGStatFetch(t *testing.T) {
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	postsCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "token123", r.URL.Query().Get("token"))
		require.Equal(t, "mychannel", r.URL.Query().Get("channelId"))

		switch r.URL.Path {
		case "/channels/stat":
			fmt.Fprint(w, `{"status":"ok","response":{"participants_count": 25000, "posts_count": 900}}`)
		case "/channels/posts":
			postsCalls++
			switch postsCalls {
			case 1:
				assert.Equal(t, "0", r.URL.Query().Get("offset"))
				fmt.Fprintf(w, `{"status":"ok","response":{"total_count": 51, "items": [
					{"id": 11, "date": %d, "views": 4000, "shares_count": 12, "replies_count": 0, "reactions_count": 80, "link": "https://t.me/mychannel/11", "text": "post"}
				]}}`, from.AddDate(0, 0, 4).Unix())
			case 2:
				assert.Equal(t, "50", r.URL.Query().Get("offset"))
				fmt.Fprintf(w, `{"status":"ok","response":{"total_count": 51, "items": [
					{"id": 12, "date": %d, "views": 100}
				]}}`, from.AddDate(0, 0, -3).Unix())
			default:
				t.Fatal("paged past total_count")
			}
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	p := NewTGStatProvider(server.URL, "token123", 5*time.Second)
	account := author.SocialAccount{ID: 4, Platform: author.PlatformTelegram, PlatformUserID: "mychannel"}

	snapshot, posts, err := p.Fetch(context.Background(), account, from, to)
	require.NoError(t, err)

	assert.Equal(t, int64(25000), snapshot.FollowersCount)
	assert.Equal(t, int64(900), snapshot.TotalPosts)

	// The second page's post precedes the window and is filtered out
	require.Len(t, posts, 1)
	assert.Equal(t, "tg_mychannel_11", posts[0].PlatformPostID)
	assert.Equal(t, int64(4000), posts[0].ViewsCount)
	assert.Equal(t, int64(80), posts[0].LikesCount)
	assert.Equal(t, int64(12), posts[0].SharesCount)
	assert.Equal(t, 2, postsCalls)
}

func TestTGStatSupports(t *testing.T) {
	p := NewTGStatProvider("http://example", "tok", time.Second)

	assert.True(t, p.Supports(author.PlatformTelegram))
	assert.False(t, p.Supports(author.PlatformTikTok))
}

func TestTGStatErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error"}`)
	}))
	defer server.Close()

	p := NewTGStatProvider(server.URL, "tok", 5*time.Second)
	account := author.SocialAccount{ID: 1, Platform: author.PlatformTelegram, PlatformUserID: "c"}

	_, _, err := p.Fetch(context.Background(), account, time.Now().AddDate(0, 0, -7), time.Now())
	assert.Error(t, err)
}
