package plugin

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kursadbilgin/lifeguard-mongodb/internal/config"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/domain"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/observability"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/registry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestOpen_RequiresConfig(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), nil, nil, nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestOpen_RejectsEmptyDatabase(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		MongoDBURL:               "mongodb://localhost:27017",
		MongoDBDatabase:          "",
		MongoDBConnectTimeoutSec: 1,
	}
	if _, err := Open(context.Background(), cfg, nil, nil); err == nil {
		t.Fatal("expected error for empty database name")
	}
}

func TestPlugin(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("register declares every repository", func(mt *mtest.T) {
		p := New(mt.DB, nil, nil)
		reg := registry.New()
		p.Register(reg)

		want := []registry.Kind{registry.KindHistory, registry.KindNotification, registry.KindValidation}
		got := reg.Declared()
		if len(got) != len(want) {
			mt.Fatalf("Declared() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				mt.Fatalf("Declared() = %v, want %v", got, want)
			}
		}

		validation, err := reg.Validation()
		if err != nil {
			mt.Fatalf("Validation() error = %v", err)
		}
		if validation != p.Validation {
			mt.Fatal("registry should resolve the plugin's validation repository")
		}
	})

	mt.Run("ping succeeds", func(mt *mtest.T) {
		p := New(mt.DB, nil, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		if err := p.Ping(context.Background()); err != nil {
			mt.Fatalf("Ping() error = %v", err)
		}
	})

	mt.Run("ping surfaces server errors", func(mt *mtest.T) {
		p := New(mt.DB, nil, nil)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))

		if err := p.Ping(context.Background()); err == nil {
			mt.Fatal("Ping() error = nil, want server error")
		}
	})

	mt.Run("repositories are instrumented", func(mt *mtest.T) {
		metrics := observability.NewMetrics()
		p := New(mt.DB, nil, metrics)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := p.Validation.SaveValidationResult(context.Background(), &domain.ValidationResult{
			ValidationName: "disk-space",
			Status:         domain.StatusProblem,
		})
		if err != nil {
			mt.Fatalf("SaveValidationResult() error = %v", err)
		}

		rec := httptest.NewRecorder()
		metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		body, _ := io.ReadAll(rec.Body)
		want := `lifeguard_mongodb_repository_operations_total{operation="save",outcome="success",repository="validation"} 1`
		if !strings.Contains(string(body), want) {
			mt.Fatalf("metrics output missing %q", want)
		}
	})

	mt.Run("close leaves a borrowed client connected", func(mt *mtest.T) {
		p := New(mt.DB, nil, nil)
		if err := p.Close(context.Background()); err != nil {
			mt.Fatalf("Close() error = %v", err)
		}

		mt.AddMockResponses(mtest.CreateSuccessResponse())
		if err := p.Ping(context.Background()); err != nil {
			mt.Fatalf("Ping() after Close() error = %v", err)
		}
	})
}
