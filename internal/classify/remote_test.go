package classify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteseer/siteseer/internal/common"
	"github.com/siteseer/siteseer/internal/service"
)

func TestRemoteClassifier_Classify(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantErr     error
		wantClasses []string
	}{
		{
			name: "parses prediction field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.NotEmpty(t, r.URL.Query().Get("msg"))
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"prediction":{"Rotunda":0.91,"RiceHall":0.05,"ClarkHall":0.04}}`))
			},
			wantClasses: []string{"ClarkHall", "RiceHall", "Rotunda"},
		},
		{
			name: "non-200 status is a classify error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: common.ErrClassify,
		},
		{
			name: "malformed JSON is a classify error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"prediction":`))
			},
			wantErr: common.ErrClassify,
		},
		{
			name: "missing prediction field is a classify error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"status":"ok"}`))
			},
			wantErr: common.ErrClassify,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			classifier, err := newRemoteClassifier(Config{
				Endpoint:   srv.URL,
				ClassNames: []string{"ClarkHall", "RiceHall", "Rotunda"},
			}, slog.Default())
			require.NoError(t, err)
			require.True(t, classifier.Ready())
			require.True(t, classifier.RequiresUpload())

			got, err := classifier.Classify(context.Background(), service.Image{
				RetrievalURL: "https://storage.example.com/temp_prediction_images/1.jpg?sig=abc",
			})

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
				return
			}

			require.NoError(t, err)
			require.Len(t, got, len(tt.wantClasses))
			// Output follows the configured class order, not response order.
			for i, want := range tt.wantClasses {
				assert.Equal(t, want, got[i].ClassName)
			}
		})
	}
}

func TestRemoteClassifier_ClassifyRequiresURL(t *testing.T) {
	classifier, err := newRemoteClassifier(Config{
		Endpoint:   "http://localhost:9",
		ClassNames: []string{"Rotunda"},
	}, slog.Default())
	require.NoError(t, err)

	_, err = classifier.Classify(context.Background(), service.Image{})
	assert.True(t, errors.Is(err, common.ErrClassify))
}

func TestRemoteClassifier_ExtraLabelsAppendedDeterministically(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"prediction":{"Rotunda":0.5,"Zeta":0.3,"Alpha":0.2}}`))
	}))
	defer srv.Close()

	classifier, err := newRemoteClassifier(Config{
		Endpoint:   srv.URL,
		ClassNames: []string{"Rotunda"},
	}, slog.Default())
	require.NoError(t, err)

	got, err := classifier.Classify(context.Background(), service.Image{RetrievalURL: "https://example.com/x.jpg"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Rotunda", got[0].ClassName)
	assert.Equal(t, "Alpha", got[1].ClassName)
	assert.Equal(t, "Zeta", got[2].ClassName)
}

func TestRemoteClassifier_EndpointWithQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Both the endpoint's own parameter and msg must survive.
		assert.Equal(t, "abc", r.URL.Query().Get("token"))
		assert.Equal(t, "https://example.com/x.jpg", r.URL.Query().Get("msg"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"prediction":{"Rotunda":1}}`))
	}))
	defer srv.Close()

	classifier, err := newRemoteClassifier(Config{
		Endpoint:   srv.URL + "/predict?token=abc",
		ClassNames: []string{"Rotunda"},
	}, slog.Default())
	require.NoError(t, err)

	got, err := classifier.Classify(context.Background(), service.Image{RetrievalURL: "https://example.com/x.jpg"})
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestNewClassifier_UnsupportedProvider(t *testing.T) {
	_, err := NewClassifier(Config{Provider: "quantum", ClassNames: []string{"Rotunda"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported classifier provider")
}

func TestNewClassifier_RequiresClassNames(t *testing.T) {
	_, err := NewClassifier(Config{Provider: "remote", Endpoint: "http://example.com"}, nil)
	require.Error(t, err)
}
