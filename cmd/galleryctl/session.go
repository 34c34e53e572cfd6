package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/akinalp/gallery/config"
	"github.com/akinalp/gallery/executor"
	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg/i18n"
	"github.com/akinalp/gallery/pkg/metrics"
	"github.com/akinalp/gallery/remote"
	"github.com/akinalp/gallery/store"
	"github.com/akinalp/gallery/views"
)

// options, persistent flag'ler ve config'ten gelen bağlantı ayarları.
type options struct {
	server       string
	token        string
	surfacesPath string
	timeout      time.Duration
	showMetrics  bool

	surfaces map[string]views.Surface
	loc      *i18n.Localizer
}

// load, config'i okur; boş bırakılan flag'ler env değerleriyle doldurulur.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if o.server == "" {
		o.server = cfg.ServerURL
	}
	if o.token == "" {
		o.token = cfg.Token
	}
	if o.surfacesPath == "" {
		o.surfacesPath = cfg.SurfacesPath
	}
	if o.timeout == 0 {
		o.timeout = cfg.RemoteTimeout
	}
	o.server = strings.TrimRight(o.server, "/")

	if err := i18n.LoadEmbedded(); err != nil {
		return err
	}
	o.loc = i18n.NewLocalizer(detectLanguage())

	if o.surfacesPath == "" {
		o.surfaces = views.DefaultSurfaces()
		return nil
	}
	o.surfaces, err = views.LoadSurfacesFile(o.surfacesPath)
	return err
}

// detectLanguage, GALLERY_LANG'i, yoksa LANG'i okur.
func detectLanguage() string {
	if v := os.Getenv("GALLERY_LANG"); v != "" {
		return i18n.DetectLanguage(v)
	}
	return i18n.DetectLanguage(os.Getenv("LANG"))
}

func (o *options) surface(name string) (views.Surface, error) {
	s, ok := o.surfaces[name]
	if !ok {
		return views.Surface{}, fmt.Errorf("surface %q is not defined", name)
	}
	return s, nil
}

// session, tek bir komutun sync çekirdeği.
type session struct {
	out      io.Writer
	opts     *options
	client   *remote.HTTPClient
	store    *store.Store
	views    *views.Registry
	exec     *executor.Executor
	registry *prometheus.Registry
	me       models.Me
}

// open, istemciyi ve sync çekirdeğini kurar. Oturum gerekiyorsa /api/users/me
// ile actor ve takip listesi store'a yüklenir.
func (o *options) open(ctx context.Context, w io.Writer, needsMe bool) (*session, error) {
	// Notice'ler executor'ın goroutine'lerinden yazılır.
	out := &lockedWriter{w: w}
	s := &session{
		out:      out,
		opts:     o,
		client:   remote.NewHTTPClient(o.server, remote.WithToken(o.token)),
		store:    store.New(),
		views:    views.NewRegistry(),
		registry: prometheus.NewRegistry(),
	}
	s.exec = executor.New(s.store, s.views, s.client,
		executor.WithRemoteTimeout(o.timeout),
		executor.WithMetrics(metrics.NewActionMetrics(metrics.WithRegistry(s.registry))),
		executor.WithNotifier(executor.NotifierFunc(func(n executor.Notice) {
			fmt.Fprintf(out, "! %s\n", o.loc.T(n.Key))
		})),
	)

	if !needsMe {
		return s, nil
	}
	if o.token == "" {
		return nil, fmt.Errorf("not logged in: run `galleryctl login` and set GALLERY_TOKEN")
	}
	me, err := s.client.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s.me = me
	s.exec.SeedUser(store.User{ID: me.ID, Username: me.Username}, me.Following)
	return s, nil
}

// mount, yüzeyi hedef için bağlar ve ilk sayfayı yükler.
func (s *session) mount(ctx context.Context, surface views.Surface, targetID string) (*views.Paginator, func(), error) {
	unsubscribe, err := s.views.Subscribe(surface.ViewName(targetID), surface.Key(targetID), surface.Limit)
	if err != nil {
		return nil, nil, err
	}
	p := views.NewPaginator(s.views, s.store, s.client, surface, targetID, views.WithSerializer(s.exec.Serialize))
	if _, err := p.Load(ctx); err != nil {
		unsubscribe()
		return nil, nil, err
	}
	return p, unsubscribe, nil
}

func (s *session) project(surface views.Surface, targetID string) views.Projection {
	var proj views.Projection
	s.exec.Serialize(func() {
		v, _ := s.views.View(surface.ViewName(targetID))
		proj = views.Project(v, views.StoreLookup(s.store), surface)
	})
	return proj
}

// label, bir entity'nin actor'unu mümkünse kullanıcı adıyla yazar.
func (s *session) label(e store.Entity) string {
	if u, ok := s.store.User(e.ActorID); ok && u.Username != "" {
		return u.Username
	}
	return e.ActorID
}

// finish, bekleyen diagnostics'i boşaltır ve istenirse metrikleri yazdırır.
func (s *session) finish() {
	s.exec.Wait()
	if !s.opts.showMetrics {
		return
	}
	families, err := s.registry.Gather()
	if err != nil {
		fmt.Fprintf(s.out, "metrics: %v\n", err)
		return
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				lines = append(lines, fmt.Sprintf("%s_count{%s} %d", mf.GetName(), strings.Join(labels, ","), m.GetHistogram().GetSampleCount()))
			}
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(s.out, l)
	}
}

// report, bir Outcome'u yazdırır. Geri alınan veya reddedilen aksiyon hata döner.
func (s *session) report(o executor.Outcome) error {
	out := s.out
	switch o.Result {
	case executor.ResultConfirmed:
		switch {
		case o.Conflict:
			fmt.Fprintf(out, "%s: already in that state (%s)\n", o.Action, o.Discriminant)
		case len(o.CanonicalIDs) > 0:
			fmt.Fprintf(out, "%s: confirmed %s\n", o.Action, strings.Join(o.CanonicalIDs, ", "))
		default:
			fmt.Fprintf(out, "%s: confirmed\n", o.Action)
		}
		return nil
	case executor.ResultRolledBack:
		var se *remote.StatusError
		if errors.As(o.Err, &se) && se.Code == http.StatusTooManyRequests {
			fmt.Fprintln(out, s.opts.loc.TWithParams("cli.rateLimited", map[string]string{
				"seconds": strconv.Itoa(se.RetryAfter),
			}))
		}
		return fmt.Errorf("%s rolled back: %w", o.Action, o.Err)
	default:
		return fmt.Errorf("%s rejected: %w", o.Action, o.Err)
	}
}

func printProjection(out io.Writer, s *session, name string, p views.Projection) {
	if p.CreateFirst {
		fmt.Fprintf(out, "%s: be the first\n", name)
		return
	}
	names := make([]string, 0, len(p.Items))
	for _, e := range p.Items {
		names = append(names, s.label(e))
	}
	line := fmt.Sprintf("%s: %s", name, strings.Join(names, ", "))
	if others := p.OthersLabel(); others != "" {
		line += " " + others
	}
	fmt.Fprintln(out, line)
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
