package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "media",
			objectType:  "url",
			identifier:  "ai-102/74f7b4a1b01300dc",
			paramsKey:   nil,
			expectedKey: "certprep:media:url:ai-102/74f7b4a1b01300dc",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "media",
			objectType:  "url",
			identifier:  "folder/token",
			paramsKey:   []string{},
			expectedKey: "certprep:media:url:folder/token",
		},
		{
			name:        "with one paramsKey",
			serviceName: "attempt",
			objectType:  "result",
			identifier:  "abc",
			paramsKey:   []string{"user1"},
			expectedKey: "certprep:attempt:result:abc:user1",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "container",
			objectType:  "stats",
			identifier:  "xyz",
			paramsKey:   []string{"p1", "p2", "p3"},
			expectedKey: "certprep:container:stats:xyz:p1_p2_p3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}
