package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/hostkit/component"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/util"
	"github.com/kbukum/hostkit/version"
)

// ExtensionInfo is the outcome of one hosting startup.
type ExtensionInfo struct {
	Identifier string
	Extensions []string
	Duration   time.Duration
	Error      string
}

// ServiceInfo describes one registration.
type ServiceInfo struct {
	Key         string
	Lifetime    string
	Initialized bool
}

// SettingInfo is one configuration value, masked when it looks secret.
type SettingInfo struct {
	Key   string
	Value string
}

// Summary is a point-in-time description of a host.
type Summary struct {
	HostID          string
	ApplicationName string
	Version         string
	Environment     string
	ContentRoot     string
	StartupAssembly string
	CaptureErrors   bool
	ShutdownTimeout time.Duration
	InitDuration    time.Duration
	InitError       string

	Extensions  []ExtensionInfo
	HostSvcs    []ServiceInfo
	AppSvcs     []ServiceInfo
	Settings    []SettingInfo
	Components  []component.Description
	Health      []component.Health
	Initialized bool
}

// Summary describes the host. Error texts of failed hosting startups are
// included only when detailed errors are enabled.
func (h *Host) Summary(ctx context.Context) *Summary {
	s := &Summary{
		HostID:          h.id,
		ApplicationName: h.options.ApplicationName,
		Version:         version.GetShortVersion(),
		Environment:     h.options.Environment,
		StartupAssembly: h.options.StartupAssembly,
		CaptureErrors:   h.options.CaptureStartupErrors,
		ShutdownTimeout: h.options.ShutdownTimeout,
		HostSvcs:        describeServices(h.hostServices),
	}
	if h.env != nil {
		s.ContentRoot = h.env.ContentRootPath
	}

	for _, o := range h.report.Outcomes {
		info := ExtensionInfo{Identifier: o.Identifier, Extensions: o.Extensions, Duration: o.Duration}
		if o.Err != nil {
			info.Error = "failed"
			if h.options.DetailedErrors {
				info.Error = o.Err.Error()
			}
		}
		s.Extensions = append(s.Extensions, info)
	}

	for _, key := range h.config.Keys() {
		v, _ := h.config.Get(key)
		if util.IsSensitiveKey(key) {
			v = util.MaskSecret(v, 2)
		}
		s.Settings = append(s.Settings, SettingInfo{Key: key, Value: v})
	}

	h.mu.Lock()
	s.Initialized = h.initialized && h.initErr == nil
	s.InitDuration = h.initTime
	if h.initErr != nil {
		s.InitError = h.initErr.Error()
	}
	services, app := h.appServices, h.app
	h.mu.Unlock()

	if services != nil {
		s.AppSvcs = describeServices(services)
	}
	if app != nil {
		s.Components = app.Components().Describe()
		s.Health = app.Components().HealthAll(ctx)
	}
	return s
}

func describeServices(p *di.Provider) []ServiceInfo {
	regs := p.Registrations()
	out := make([]ServiceInfo, 0, len(regs))
	for _, r := range regs {
		out = append(out, ServiceInfo{Key: r.Key, Lifetime: r.Lifetime.String(), Initialized: r.Initialized})
	}
	return out
}

// DisplaySummary prints the summary to stdout.
func (s *Summary) DisplaySummary() {
	s.Render(os.Stdout)
}

// Render writes the summary as a tree.
func (s *Summary) Render(w io.Writer) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "🚀 %s v%s (%s)\n\n", s.ApplicationName, s.Version, s.Environment)

	fmt.Fprintf(w, "📂 Host\n")
	fmt.Fprintf(w, "   ├── id: %s\n", s.HostID)
	fmt.Fprintf(w, "   ├── content root: %s\n", s.ContentRoot)
	fmt.Fprintf(w, "   ├── startup: %s\n", util.Coalesce(s.StartupAssembly, "(none)"))
	fmt.Fprintf(w, "   ├── capture startup errors: %t\n", s.CaptureErrors)
	fmt.Fprintf(w, "   └── shutdown timeout: %s\n", s.ShutdownTimeout)

	fmt.Fprintf(w, "\n🧩 Hosting Startups\n")
	if len(s.Extensions) == 0 {
		fmt.Fprintf(w, "   └── none\n")
	}
	for i, e := range s.Extensions {
		prefix := treePrefix(i, len(s.Extensions))
		if e.Error != "" {
			fmt.Fprintf(w, "   %s ❌ %s: %s\n", prefix, e.Identifier, e.Error)
			continue
		}
		fmt.Fprintf(w, "   %s ✅ %s [%s] (%.2fms)\n", prefix, e.Identifier,
			strings.Join(e.Extensions, ", "), float64(e.Duration.Microseconds())/1000)
	}

	fmt.Fprintf(w, "\n⚙️  Initialization\n")
	switch {
	case s.InitError != "":
		fmt.Fprintf(w, "   └── ❌ %s\n", s.InitError)
	case s.Initialized:
		fmt.Fprintf(w, "   └── ✅ initialized in %.2fs\n", s.InitDuration.Seconds())
	default:
		fmt.Fprintf(w, "   └── ⏸️  not initialized\n")
	}

	renderServices(w, "🏠 Host Services", s.HostSvcs)
	if s.AppSvcs != nil {
		renderServices(w, "📦 Application Services", s.AppSvcs)
	}

	if len(s.Settings) > 0 {
		fmt.Fprintf(w, "\n🔧 Settings\n")
		for i, st := range s.Settings {
			fmt.Fprintf(w, "   %s %s = %s\n", treePrefix(i, len(s.Settings)), st.Key, st.Value)
		}
	}

	if len(s.Components) > 0 {
		fmt.Fprintf(w, "\n🧱 Components\n")
		for i, c := range s.Components {
			line := c.Name
			if c.Type != "" {
				line += " [" + c.Type + "]"
			}
			if c.Details != "" {
				line += " " + c.Details
			}
			fmt.Fprintf(w, "   %s %s\n", treePrefix(i, len(s.Components)), line)
		}
	}

	if len(s.Health) > 0 {
		fmt.Fprintf(w, "\n🏥 Health Check\n")
		for i, h := range s.Health {
			msg := ""
			if h.Message != "" {
				msg = fmt.Sprintf(" (%s)", h.Message)
			}
			fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(s.Health)),
				healthStatusIcon(h.Status), h.Name, strings.ToLower(string(h.Status)), msg)
		}
	}
	fmt.Fprintf(w, "\n")
}

func renderServices(w io.Writer, title string, services []ServiceInfo) {
	fmt.Fprintf(w, "\n%s (%d)\n", title, len(services))
	for i, svc := range services {
		icon := "💤"
		if svc.Initialized {
			icon = "⚡"
		}
		fmt.Fprintf(w, "   %s %s %s (%s)\n", treePrefix(i, len(services)), icon, svc.Key, svc.Lifetime)
	}
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
