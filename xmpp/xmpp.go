// Package xmpp sends proximity alerts over XMPP.
package xmpp

import (
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/mattn/go-xmpp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/rae-server/rae"
	"github.com/a-bouts/rae-server/site"
	"github.com/a-bouts/rae-server/track"
)

// ErrMissingConfig is returned by Send when no account is configured.
var ErrMissingConfig = errors.New("missing xmpp config")

// Notifier delivers a text alert.
type Notifier interface {
	Send(message string) error
}

type (
	// Config for the account alerts are sent from.
	Config struct {
		Host     string
		Jid      string
		Password string
		To       string
	}

	Xmpp struct {
		Config Config
	}
)

// Enabled reports whether enough of the config is set to send anything.
func (c Config) Enabled() bool {
	return len(c.Jid) > 0 && len(c.Password) > 0 && len(c.To) > 0
}

func serverName(jid string) string {
	if i := strings.Index(jid, "@"); i >= 0 {
		return jid[i+1:]
	}
	return jid
}

func (x Xmpp) Send(message string) error {

	if !x.Config.Enabled() {
		log.Debug("missing xmpp config")

		return ErrMissingConfig
	}

	if len(x.Config.Host) == 0 {
		x.Config.Host = serverName(x.Config.Jid)
	}

	options := xmpp.Options{
		Host:          x.Config.Host,
		TLSConfig:     &tls.Config{ServerName: serverName(x.Config.Jid)},
		User:          x.Config.Jid,
		Password:      x.Config.Password,
		NoTLS:         true,
		StartTLS:      true,
		Debug:         false,
		Session:       false,
		Status:        "xa",
		StatusMessage: "watching the sky",
	}

	log.WithField("host", options.Host).Debug("create xmpp client")
	talk, err := options.NewClient()
	if err != nil {
		return errors.Wrap(err, "xmpp client")
	}
	defer talk.Close()

	if _, err := talk.Send(xmpp.Chat{Remote: x.Config.To, Type: "chat", Text: message}); err != nil {
		return errors.Wrap(err, "xmpp send")
	}

	return nil
}

// FormatAlert builds the alert text for a track seen from a site.
func FormatAlert(s site.Site, t track.Track, m rae.Measurement) string {
	return fmt.Sprintf("%s within %.0f m of %s: range %.0f m, azimuth %.1f°, elevation %.1f°",
		t.ID, s.AlertRange, s.Name, m.Range, m.AzimuthDeg(), m.ElevationDeg())
}
