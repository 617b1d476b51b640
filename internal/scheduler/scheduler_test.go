package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/mizanhq/mizan/internal/crawler"
	"github.com/mizanhq/mizan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCrawler(store *testutil.MemStore) *crawler.Crawler {
	fake := testutil.NewFakeFetcher()
	fake.AddXML("https://laws.boe.gov.sa/Sitemap.xml", "<urlset></urlset>")
	return crawler.New(store, fake, nil, crawler.Config{
		Seeds:          []string{"https://laws.boe.gov.sa/Sitemap.xml"},
		DiscoveryDelay: 1,
		PageDelay:      1,
	})
}

func TestSchedulerTriggersRuns(t *testing.T) {
	store := testutil.NewMemStore()
	s := New(newTestCrawler(store), 10*time.Millisecond)

	s.Start(context.Background())
	require.Eventually(t, func() bool {
		return store.LastRun() != nil
	}, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	s := New(newTestCrawler(testutil.NewMemStore()), time.Minute)
	assert.NotPanics(t, s.Stop)
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	s := New(newTestCrawler(testutil.NewMemStore()), time.Hour)
	s.Start(context.Background())
	s.Stop()
	assert.NotPanics(t, s.Stop)
}
