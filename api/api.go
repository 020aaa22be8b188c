package api

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/rae-server/api/model"
	"github.com/a-bouts/rae-server/enu"
	"github.com/a-bouts/rae-server/latlon"
	"github.com/a-bouts/rae-server/metrics"
	"github.com/a-bouts/rae-server/rae"
	"github.com/a-bouts/rae-server/site"
	"github.com/a-bouts/rae-server/track"
	"github.com/a-bouts/rae-server/xmpp"
)

type server struct {
	cpuprofile  bool
	profilePath string
	profileLock sync.Mutex
	sites       *site.Sites
	tracks      *track.Store
	notifier    xmpp.Notifier
	now         func() time.Time
}

// Config is what the api is built from.
type Config struct {
	CPUProfile  bool
	ProfilePath string
	Sites       *site.Sites
	Tracks      *track.Store
	Notifier    xmpp.Notifier
}

func InitServer(c Config) *mux.Router {

	router := mux.NewRouter().StrictSlash(true)
	router.Use(metrics.Middleware)

	s := &server{
		cpuprofile:  c.CPUProfile,
		profilePath: c.ProfilePath,
		sites:       c.Sites,
		tracks:      c.Tracks,
		notifier:    c.Notifier,
		now:         time.Now,
	}
	if s.sites == nil {
		s.sites = site.Empty()
	}
	if s.tracks == nil {
		s.tracks = track.NewStore()
	}

	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/rae/-/healthz", s.healthz).Methods(http.MethodGet)

	apiV1 := router.PathPrefix("/rae/api/v1").Subrouter()
	apiV1.HandleFunc("/enu", s.convertENU).Methods(http.MethodPost)
	apiV1.HandleFunc("/rae", s.convertRAE).Methods(http.MethodPost)
	apiV1.HandleFunc("/rae/offset", s.offset).Methods(http.MethodPost)
	apiV1.HandleFunc("/batch", s.batch).Methods(http.MethodPost)
	apiV1.HandleFunc("/sites", s.getSites).Methods(http.MethodGet)
	apiV1.HandleFunc("/sites/{site}/rae/{lat}/{lon}/{alt}", s.siteRAE).Methods(http.MethodGet)
	apiV1.HandleFunc("/sites/{site}/tracks", s.siteTracks).Methods(http.MethodGet)
	apiV1.HandleFunc("/tracks/{id}", s.putTrack).Methods(http.MethodPut)
	apiV1.HandleFunc("/tracks/{id}", s.deleteTrack).Methods(http.MethodDelete)

	return router
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.WithField("action", "encode").Error(err)
		code = http.StatusInternalServerError
		buf.Reset()
		// model.Error always encodes.
		json.NewEncoder(&buf).Encode(model.Error{Error: errors.Wrap(err, "encoding response").Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, model.Error{Error: err.Error()})
}

// convert runs a full conversion and records it.
func convert(ref, tgt latlon.LatLon) (model.Result, error) {
	o, err := enu.FromGeodetic(ref, tgt)
	if err != nil {
		metrics.InvalidInput()
		return model.Result{}, err
	}
	m := rae.FromOffset(o)
	metrics.Conversion(m.Range)

	return model.Result{
		ENU: o,
		RAE: &m,
		Ground: &model.Ground{
			Distance: latlon.DistanceTo(ref, tgt),
			Bearing:  latlon.BearingTo(ref, tgt),
		},
	}, nil
}

func requestLogger(action string, req *http.Request) *log.Entry {
	fields := log.Fields{
		"action": action,
	}
	if ip, err := clientIP(req); err == nil {
		fields["IP"] = ip
	}
	return log.WithFields(fields)
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
		Sites  int    `json:"sites"`
		Tracks int    `json:"tracks"`
	}

	writeJSON(w, http.StatusOK, health{Status: "Ok", Sites: s.sites.Len(), Tracks: s.tracks.Len()})
}

func (s *server) convertENU(w http.ResponseWriter, req *http.Request) {
	var c model.Conversion
	if err := json.NewDecoder(req.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "decoding conversion"))
		return
	}

	o, err := enu.FromGeodetic(c.Reference, c.Target)
	if err != nil {
		metrics.InvalidInput()
		requestLogger("enu", req).Debug(err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, model.Result{ENU: o})
}

func (s *server) convertRAE(w http.ResponseWriter, req *http.Request) {
	var c model.Conversion
	if err := json.NewDecoder(req.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "decoding conversion"))
		return
	}

	res, err := convert(c.Reference, c.Target)
	if err != nil {
		requestLogger("rae", req).Debug(err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *server) offset(w http.ResponseWriter, req *http.Request) {
	var o enu.Offset
	if err := json.NewDecoder(req.Body).Decode(&o); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "decoding offset"))
		return
	}

	m := rae.FromOffset(o)
	writeJSON(w, http.StatusOK, model.Result{ENU: o, RAE: &m})
}

func (s *server) batch(w http.ResponseWriter, req *http.Request) {
	if s.cpuprofile {
		s.profileLock.Lock()
		defer s.profileLock.Unlock()
		defer profile.Start(profile.ProfilePath(s.profilePath), profile.NoShutdownHook, profile.Quiet).Stop()
	}

	logger := requestLogger("batch", req)

	var cs []model.Conversion
	if err := json.NewDecoder(req.Body).Decode(&cs); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "decoding batch"))
		return
	}

	start := time.Now()

	results := make([]model.Result, len(cs))
	invalid := 0
	for i, c := range cs {
		res, err := convert(c.Reference, c.Target)
		if err != nil {
			res.Error = err.Error()
			invalid++
		}
		results[i] = res
	}

	logger.Infof("Batch of %d (%d invalid) took %s", len(cs), invalid, time.Since(start).String())

	writeJSON(w, http.StatusOK, results)
}

func (s *server) getSites(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, s.sites.List())
}

func (s *server) siteRAE(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	st, ok := s.sites.Get(vars["site"])
	if !ok {
		writeError(w, http.StatusNotFound, errors.Errorf("unknown site '%s'", vars["site"]))
		return
	}

	var tgt latlon.LatLon
	var err error
	for _, v := range []struct {
		name string
		dst  *float64
	}{{"lat", &tgt.Lat}, {"lon", &tgt.Lon}, {"alt", &tgt.Alt}} {
		if *v.dst, err = strconv.ParseFloat(vars[v.name], 64); err != nil {
			writeError(w, http.StatusBadRequest, errors.Wrapf(err, "parsing %s", v.name))
			return
		}
	}

	res, err := convert(st.Position, tgt)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	requestLogger("site", req).Debugf("%s -> (%f,%f,%f) : %.0f m %.1f° %.1f°", st.Name, tgt.Lat, tgt.Lon, tgt.Alt, res.RAE.Range, res.RAE.AzimuthDeg(), res.RAE.ElevationDeg())

	writeJSON(w, http.StatusOK, res)
}

func (s *server) siteTracks(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["site"]

	st, ok := s.sites.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, errors.Errorf("unknown site '%s'", name))
		return
	}

	tracks := s.tracks.List()
	results := make([]model.TrackResult, 0, len(tracks))
	for _, t := range tracks {
		res, err := convert(st.Position, t.Position)
		if err != nil {
			res.Error = err.Error()
		}
		results = append(results, model.TrackResult{Track: t, Result: res})
	}

	writeJSON(w, http.StatusOK, results)
}

func (s *server) putTrack(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var p latlon.LatLon
	if err := json.NewDecoder(req.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "decoding position"))
		return
	}

	t, err := s.tracks.Update(id, p, s.now())
	if err != nil {
		if errors.Is(err, latlon.ErrInvalidInput) {
			metrics.InvalidInput()
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.checkAlerts(t)

	writeJSON(w, http.StatusOK, t)
}

// checkAlerts notifies, in the background, every site the track is in alert
// range of.
func (s *server) checkAlerts(t track.Track) {
	if s.notifier == nil {
		return
	}
	for _, st := range s.sites.List() {
		if st.AlertRange <= 0 {
			continue
		}
		_, m, err := st.Measure(t.Position)
		if err != nil || !st.InAlertRange(m) {
			continue
		}
		msg := xmpp.FormatAlert(st, t, m)
		go func(site string) {
			err := s.notifier.Send(msg)
			metrics.Alert(site, err)
			if err != nil {
				log.WithField("site", site).Warnf("Alert not sent: %v", err)
				return
			}
			log.WithField("site", site).Info(msg)
		}(st.Name)
	}
}

func (s *server) deleteTrack(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	if err := s.tracks.Remove(id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// clientIP returns the caller address, trusting the proxy headers first.
func clientIP(r *http.Request) (string, error) {
	if ip := r.Header.Get("X-Real-IP"); net.ParseIP(ip) != nil {
		return ip, nil
	}

	for _, ip := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if ip = strings.TrimSpace(ip); net.ParseIP(ip) != nil {
			return ip, nil
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", errors.Wrap(err, "remote address")
	}
	if net.ParseIP(host) == nil {
		return "", errors.Errorf("no valid ip in '%s'", r.RemoteAddr)
	}
	return host, nil
}
