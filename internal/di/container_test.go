package di

import (
	"context"
	"testing"

	"github.com/mikey/daily-briefer/internal/collect"
	"github.com/mikey/daily-briefer/internal/config"
	"github.com/mikey/daily-briefer/internal/core"
)

// The default token paths do not exist here, so every Google source fails to
// authenticate. That must not fail container resolution: the sources resolve
// to nil and the collection service reports them unavailable, keeping the run
// alive in degraded form.
func TestBuildContainerUnauthenticatedSourcesDegrade(t *testing.T) {
	container, err := BuildContainer(context.Background(), "")
	if err != nil {
		t.Fatalf("BuildContainer() error = %v", err)
	}

	err = container.Invoke(func(
		mail core.MailSource,
		calendar core.CalendarSource,
		docs core.DocumentSource,
		tasks core.TaskSource,
		svc *collect.Service,
	) {
		if mail != nil {
			t.Errorf("mail source = %v, want nil without credentials", mail)
		}
		if calendar != nil {
			t.Errorf("calendar source = %v, want nil without credentials", calendar)
		}
		if docs != nil {
			t.Errorf("document source = %v, want nil without credentials", docs)
		}
		if tasks != nil {
			t.Errorf("task source = %v, want nil without an API key", tasks)
		}
		if svc == nil {
			t.Error("collection service not built")
		}
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v, want degraded sources instead of failure", err)
	}
}

func TestBuildContainerLogLevelOverride(t *testing.T) {
	container, err := BuildContainer(context.Background(), "error")
	if err != nil {
		t.Fatalf("BuildContainer() error = %v", err)
	}

	err = container.Invoke(func(cfg *config.Config) {
		if got := cfg.GetString("logging.level"); got != "error" {
			t.Errorf("logging.level = %q, want the override %q", got, "error")
		}
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
}
