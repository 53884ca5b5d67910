package assistant_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/terrasense/terrasense/internal/assistant"
)

// fixed dates inside and outside the rain seasons
var (
	aprilDay    = time.Date(2025, time.April, 10, 12, 0, 0, 0, time.UTC)
	novemberDay = time.Date(2025, time.November, 10, 12, 0, 0, 0, time.UTC)
	julyDay     = time.Date(2025, time.July, 10, 12, 0, 0, 0, time.UTC)
)

func TestFallbackReply_Rules(t *testing.T) {
	tests := []struct {
		name    string
		message string
		context string
		now     time.Time
		want    string
	}{
		{
			name:    "ndvi without reading explains the scale",
			message: "Tell me about NDVI",
			now:     julyDay,
			want:    "Normalized Difference Vegetation Index",
		},
		{
			name:    "vegetation keyword hits the ndvi rule",
			message: "How is my vegetation doing?",
			now:     julyDay,
			want:    "Normalized Difference Vegetation Index",
		},
		{
			name:    "soil moisture",
			message: "What about soil moisture?",
			now:     julyDay,
			want:    "Soil moisture is critical",
		},
		{
			name:    "soil general",
			message: "Is my soil healthy?",
			now:     julyDay,
			want:    "Soil health is the foundation",
		},
		{
			name:    "soil beats restoration keywords",
			message: "How can I improve soil health?",
			now:     julyDay,
			want:    "Soil health is the foundation",
		},
		{
			name:    "planting in long rains",
			message: "When should I plant?",
			now:     aprilDay,
			want:    "Long Rains (March-May)",
		},
		{
			name:    "planting in short rains",
			message: "Best timing for seedlings?",
			now:     novemberDay,
			want:    "Short Rains (October-December)",
		},
		{
			name:    "planting in dry season",
			message: "When should I plant?",
			now:     julyDay,
			want:    "Dry Season",
		},
		{
			name:    "restoration techniques",
			message: "Which techniques work best?",
			now:     julyDay,
			want:    "COMPREHENSIVE RESTORATION STRATEGIES",
		},
		{
			name:    "data interpretation",
			message: "What do these metrics mean?",
			now:     julyDay,
			want:    "DATA INTERPRETATION GUIDE",
		},
		{
			name:    "greeting",
			message: "hello",
			now:     julyDay,
			want:    "land restoration assistant",
		},
		{
			name:    "thanks",
			message: "thank you!",
			now:     julyDay,
			want:    "You're welcome",
		},
		{
			name:    "default",
			message: "xyzzy",
			now:     julyDay,
			want:    "Popular questions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := assistant.FallbackReply(tt.message, tt.context, tt.now)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestFallbackReply_NDVITiers(t *testing.T) {
	tests := []struct {
		name    string
		context string
		want    string
	}{
		{"excellent", "NDVI: 0.72 (excellent)", "Great news! Your NDVI is 0.72"},
		{"good", "NDVI: 0.55 (good)", "Your NDVI is 0.55, showing good vegetation cover"},
		{"fair", "NDVI: 0.30 (fair)", "Your NDVI is 0.30, indicating fair vegetation health"},
		{"critical", "NDVI: 0.10 (poor)", "ALERT: Your NDVI is 0.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := assistant.FallbackReply("what is my ndvi?", tt.context, julyDay)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestFallbackReply_GreetingMentionsProject(t *testing.T) {
	withProject := assistant.FallbackReply("hi there", "Current project: Mara Valley (reforestation)", julyDay)
	assert.Contains(t, withProject, "I can see you're working on a project")

	without := assistant.FallbackReply("hi there", "", julyDay)
	assert.NotContains(t, without, "I can see you're working on a project")
}
