package sse

import (
	"testing"

	"github.com/devlogai/devlog-backend/internal/logger"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New failed: %v", err)
	}
	return NewHub(log)
}

func TestHubBroadcast_ReachesOnlySubscribers(t *testing.T) {
	hub := newTestHub(t)

	subscriber := hub.NewClient()
	hub.Subscribe(subscriber, ChannelPortfolio)
	bystander := hub.NewClient()
	hub.Subscribe(bystander, "other")

	hub.Broadcast(ChannelPortfolio, EventPortfolioStep, "Analyzing module: X...")

	select {
	case msg := <-subscriber.Outbound:
		if msg.Event != EventPortfolioStep || msg.Channel != ChannelPortfolio {
			t.Fatalf("msg = %+v", msg)
		}
	default:
		t.Fatal("subscriber received nothing")
	}

	select {
	case msg := <-bystander.Outbound:
		t.Fatalf("bystander received %+v", msg)
	default:
	}
}

func TestHubBroadcast_DropsWhenOutboundFull(t *testing.T) {
	hub := newTestHub(t)
	client := hub.NewClient()
	hub.Subscribe(client, ChannelPortfolio)

	for i := 0; i < cap(client.Outbound)+5; i++ {
		hub.Broadcast(ChannelPortfolio, EventPortfolioStep, i)
	}
	if len(client.Outbound) != cap(client.Outbound) {
		t.Fatalf("outbound len = %d, want full buffer %d", len(client.Outbound), cap(client.Outbound))
	}
}

func TestHubRemove_ClosesOutboundAndUnsubscribes(t *testing.T) {
	hub := newTestHub(t)
	client := hub.NewClient()
	hub.Subscribe(client, ChannelPortfolio)

	hub.Remove(client)

	if _, ok := <-client.Outbound; ok {
		t.Fatal("outbound channel not closed")
	}
	// Broadcasting after removal must not panic on the closed channel.
	hub.Broadcast(ChannelPortfolio, EventPortfolioCompleted, nil)
}
