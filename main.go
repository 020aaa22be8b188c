package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/jasonlvhit/gocron"
	"github.com/peterbourgon/ff"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/rae-server/api"
	"github.com/a-bouts/rae-server/metrics"
	"github.com/a-bouts/rae-server/site"
	"github.com/a-bouts/rae-server/track"
	"github.com/a-bouts/rae-server/xmpp"
)

func pruneTracks(tracks *track.Store, maxAge time.Duration) {
	if n := tracks.Prune(time.Now(), maxAge); n > 0 {
		metrics.Pruned(n)
		log.Infof("Pruned %d stale tracks", n)
	}
}

// schedulePruning registers the track pruning job on s.
func schedulePruning(s *gocron.Scheduler, every uint64, tracks *track.Store, maxAge time.Duration) error {
	if every == 0 {
		return errors.New("prune interval must be at least one second")
	}
	return errors.Wrap(s.Every(every).Seconds().Do(pruneTracks, tracks, maxAge), "scheduling track pruning")
}

func main() {

	fs := flag.NewFlagSet("rae-server", flag.ExitOnError)
	var (
		listen       = fs.String("listen", ":8888", "http listen address")
		sitesFile    = fs.String("sites", "", "sites yaml file")
		trackTTL     = fs.Duration("track-ttl", 5*time.Minute, "drop tracks not updated for this long")
		pruneEvery   = fs.Uint64("prune-every", 15, "seconds between two track prunings")
		cpuprofile   = fs.Bool("cpuprofile", false, "profile batch conversions")
		profilePath  = fs.String("profile-path", "", "directory cpu profiles are written to")
		debug        = fs.Bool("debug", false, "debug logs")
		xmppHost     = fs.String("xmpp-host", "", "")
		xmppJid      = fs.String("xmpp-jid", "", "")
		xmppPassword = fs.String("xmpp-password", "", "")
		xmppTo       = fs.String("xmpp-to", "", "")
	)
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix()); err != nil {
		log.Fatal(err)
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	sites := site.Empty()
	if *sitesFile != "" {
		log.Infof("Load sites from '%s'", *sitesFile)
		var err error
		if sites, err = site.Load(*sitesFile); err != nil {
			log.Fatal(err)
		}
	}
	log.Infof("%d sites loaded", sites.Len())

	tracks := track.NewStore()

	var notifier xmpp.Notifier
	x := xmpp.Xmpp{Config: xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo}}
	if x.Config.Enabled() {
		notifier = x
	} else {
		log.Info("No xmpp account, alerts disabled")
	}

	s := gocron.NewScheduler()
	if err := schedulePruning(s, *pruneEvery, tracks, *trackTTL); err != nil {
		log.Fatal(err)
	}
	s.Start()

	router := api.InitServer(api.Config{
		CPUProfile:  *cpuprofile,
		ProfilePath: *profilePath,
		Sites:       sites,
		Tracks:      tracks,
		Notifier:    notifier,
	})

	h := handlers.LoggingHandler(log.StandardLogger().Writer(), router)
	h = handlers.CORS(
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)

	log.Infof("Start server on %s", *listen)
	log.Fatal(http.ListenAndServe(*listen, h))
}
