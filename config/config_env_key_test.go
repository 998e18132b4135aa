package config

import "testing"

func TestCanonicalizeEnvKey(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"proximity": map[string]any{
			"defaultRadiusMeters": 1000,
			"stalenessWindow":     "5m",
			"storeProvider":       "memory",
		},
		"pubsub": map[string]any{
			"topicId": "",
		},
		"secretKey": map[string]any{
			"access": "",
		},
		"redis": map[string]any{
			"addr": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "PROXIMITY_DEFAULTRADIUSMETERS", want: "proximity.defaultRadiusMeters"},
		{envKey: "PROXIMITY_STALENESSWINDOW", want: "proximity.stalenessWindow"},
		{envKey: "PROXIMITY_STOREPROVIDER", want: "proximity.storeProvider"},
		{envKey: "PUBSUB_TOPICID", want: "pubsub.topicId"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "REDIS_ADDR", want: "redis.addr"},
		// Keys absent from the loaded config fall back to plain
		// lowercased dot paths.
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}
