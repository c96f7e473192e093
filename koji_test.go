package koji

import (
	"errors"
	"testing"
)

type testCase struct {
	name         string
	projectID    string
	projectToken string
	endpoint     string
	wantErr      error
	wantEndpoint string
}

func TestNew(t *testing.T) {
	testCases := []testCase{
		{
			name:         "Valid Config",
			projectID:    "project-a",
			projectToken: "token-a",
			endpoint:     "https://rest.example.test",
			wantErr:      nil,
			wantEndpoint: "https://rest.example.test",
		},
		{
			name:         "Default Endpoint",
			projectID:    "project-b",
			wantErr:      nil,
			wantEndpoint: DefaultAPIEndpoint,
		},
		{
			name:      "Missing Project ID",
			endpoint:  "https://rest.example.test",
			wantErr:   ErrProjectIDEmpty,
			projectID: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sdk, err := New(Config{
				ProjectID:    tc.projectID,
				ProjectToken: tc.projectToken,
				APIEndpoint:  tc.endpoint,
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if err != nil {
				// Configuration failures must carry the shared kind as well.
				if !errors.Is(err, ErrConfiguration) {
					t.Fatalf("expected error to match ErrConfiguration, got %v", err)
				}
				return
			}

			t.Run("Check Endpoint", func(t *testing.T) {
				if sdk.Config().APIEndpoint != tc.wantEndpoint {
					t.Errorf("expected endpoint %q, got %q", tc.wantEndpoint, sdk.Config().APIEndpoint)
				}
			})

			t.Run("Check Identity", func(t *testing.T) {
				if sdk.Config().ProjectID != tc.projectID {
					t.Errorf("expected project id %q, got %q", tc.projectID, sdk.Config().ProjectID)
				}
				if sdk.Config().ProjectToken != tc.projectToken {
					t.Errorf("expected project token %q, got %q", tc.projectToken, sdk.Config().ProjectToken)
				}
			})
		})
	}
}

func TestSDK_Behavior(t *testing.T) {
	s1, err := New(Config{ProjectID: "one"})
	if err != nil {
		t.Fatalf("first New returned error: %v", err)
	}
	s2, err := New(Config{ProjectID: "two", APIEndpoint: "https://alt.example.test"})
	if err != nil {
		t.Fatalf("second New returned error: %v", err)
	}

	t.Run("Config_Immutability", func(t *testing.T) {
		got := s1.Config()
		got.ProjectID = "mutated"
		if s1.Config().ProjectID != "one" {
			t.Fatalf("expected SDK project id to remain 'one', got %q", s1.Config().ProjectID)
		}
	})

	t.Run("InstancesIsolation", func(t *testing.T) {
		if s1.Config().ProjectID != "one" || s2.Config().ProjectID != "two" {
			t.Fatalf("expected project ids 'one' and 'two', got %q and %q",
				s1.Config().ProjectID, s2.Config().ProjectID)
		}
		if s1.Config().APIEndpoint == s2.Config().APIEndpoint {
			t.Fatalf("expected distinct endpoints, both %q", s1.Config().APIEndpoint)
		}
	})
}
