package location

import (
	"context"
	"testing"
	"time"
)

func TestFeedPermissionDefaultsToDenied(t *testing.T) {
	feed := NewFeed()

	granted, err := feed.RequestPermission(context.Background(), 1)
	if err != nil {
		t.Fatalf("RequestPermission failed: %v", err)
	}
	if granted {
		t.Error("Expected permission to default to denied")
	}
}

func TestFeedPermissionReported(t *testing.T) {
	feed := NewFeed()

	feed.SetPermission(1, true)
	granted, _ := feed.RequestPermission(context.Background(), 1)
	if !granted {
		t.Error("Expected granted permission to be reported")
	}

	feed.SetPermission(1, false)
	granted, _ = feed.RequestPermission(context.Background(), 1)
	if granted {
		t.Error("Expected revoked permission to be reported")
	}
}

func TestFeedCurrentWithoutSample(t *testing.T) {
	feed := NewFeed()

	_, err := feed.Current(context.Background(), 1, AccuracyHigh)
	if err != ErrNoPosition {
		t.Errorf("Expected ErrNoPosition, got %v", err)
	}
}

func TestFeedCurrentReturnsLatest(t *testing.T) {
	feed := NewFeed()

	feed.ReportPosition(1, Position{Latitude: 37.0, Longitude: -122.0})
	feed.ReportPosition(1, Position{Latitude: 38.0, Longitude: -123.0})

	pos, err := feed.Current(context.Background(), 1, AccuracyBalanced)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if pos.Latitude != 38.0 || pos.Longitude != -123.0 {
		t.Errorf("Expected latest sample, got %.1f,%.1f", pos.Latitude, pos.Longitude)
	}
}

func TestFeedWatchDeliversFirstSample(t *testing.T) {
	feed := NewFeed()

	sub, err := feed.Watch(1, WatchOptions{TimeInterval: 5 * time.Second, DistanceInterval: 5})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer sub.Cancel()

	feed.ReportPosition(1, Position{Latitude: 37.7749, Longitude: -122.4194})

	select {
	case pos := <-sub.Positions:
		if pos.Latitude != 37.7749 {
			t.Errorf("Unexpected sample: %+v", pos)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected first sample to be delivered")
	}
}

func TestFeedWatchFiltersByTimeAndDistance(t *testing.T) {
	feed := NewFeed()

	sub, err := feed.Watch(1, WatchOptions{TimeInterval: time.Minute, DistanceInterval: 5})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer sub.Cancel()

	base := time.Now()
	feed.ReportPosition(1, Position{Latitude: 37.7749, Longitude: -122.4194, Timestamp: base})
	<-sub.Positions

	// Same spot a second later: under both thresholds, must be filtered
	feed.ReportPosition(1, Position{Latitude: 37.7749, Longitude: -122.4194, Timestamp: base.Add(time.Second)})
	select {
	case pos := <-sub.Positions:
		t.Errorf("Expected sample to be filtered, got %+v", pos)
	case <-time.After(100 * time.Millisecond):
	}

	// Far enough and late enough: delivered
	feed.ReportPosition(1, Position{Latitude: 37.7800, Longitude: -122.4194, Timestamp: base.Add(2 * time.Minute)})
	select {
	case <-sub.Positions:
	case <-time.After(time.Second):
		t.Fatal("Expected moved sample to be delivered")
	}
}

func TestFeedWatchCancelIsIdempotent(t *testing.T) {
	feed := NewFeed()

	sub, err := feed.Watch(1, WatchOptions{})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	sub.Cancel()
	sub.Cancel() // second release must be harmless

	// Channel must be closed after cancel
	if _, open := <-sub.Positions; open {
		t.Error("Expected position channel to be closed after cancel")
	}

	// Samples after cancel go nowhere, and must not panic
	feed.ReportPosition(1, Position{Latitude: 1, Longitude: 1})
}

func TestDistanceMeters(t *testing.T) {
	// San Francisco city hall to the ferry building, roughly 2.6km
	d := DistanceMeters(37.7793, -122.4193, 37.7955, -122.3937)
	if d < 2500 || d > 3200 {
		t.Errorf("Expected roughly 2.6km, got %.0fm", d)
	}

	if d := DistanceMeters(10, 20, 10, 20); d != 0 {
		t.Errorf("Expected zero distance for identical points, got %f", d)
	}
}
