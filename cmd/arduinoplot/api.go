package main

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"time"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"

	"github.com/gregpinero/ArduinoPlot/plot"
)

// refreshInterval is the redraw cadence of the chart.
const refreshInterval = 90 * time.Millisecond

// A Source produces one numeric sample per redraw tick.
type Source interface {
	Next() float64
}

type api struct {
	http.Handler
	source Source
	series *plot.Series
	sse    *sse.Server
}

// frame is one redraw's worth of chart state, pushed over SSE.
type frame struct {
	Index  int     `json:"index"`
	Value  float64 `json:"value"`
	Paused bool    `json:"paused"`
	XMin   float64 `json:"xmin"`
	XMax   float64 `json:"xmax"`
	YMin   float64 `json:"ymin"`
	YMax   float64 `json:"ymax"`
}

func newAPI(source Source, series *plot.Series) *api {
	r := mux.NewRouter()

	a := &api{
		Handler: r,
		source:  source,
		series:  series,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
	}

	r.HandleFunc("/", a.index).Methods("GET")
	r.HandleFunc("/api/series", a.getSeries).Methods("GET")
	r.HandleFunc("/api/bounds", a.setBounds).Methods("POST")
	r.HandleFunc("/api/pause", a.togglePause).Methods("POST")
	r.PathPrefix("/events/").Handler(a.sse)

	go a.tickLoop()

	return a
}

func (a *api) tickLoop() {
	for range time.NewTicker(refreshInterval).C {
		if !a.series.Paused() {
			a.series.Append(a.source.Next())
		}
		a.publish()
	}
}

func (a *api) publish() {
	data, err := json.Marshal(a.currentFrame())
	if err != nil {
		log.Printf("ERROR: marshal json: %+v", err)
		return
	}
	a.sse.SendMessage("/events/samples", sse.SimpleMessage(string(data)))
}

func (a *api) currentFrame() frame {
	values := a.series.Values()
	xmin, xmax := a.series.XRange()
	ymin, ymax := a.series.YRange()
	f := frame{
		Index:  len(values) - 1,
		Paused: a.series.Paused(),
		XMin:   xmin,
		XMax:   xmax,
		YMin:   ymin,
		YMax:   ymax,
	}
	if len(values) > 0 {
		f.Value = values[len(values)-1]
	}
	return f
}

func (a *api) index(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func (a *api) getSeries(w http.ResponseWriter, req *http.Request) {
	resp := struct {
		Values []float64   `json:"values"`
		Paused bool        `json:"paused"`
		Bounds plot.Bounds `json:"bounds"`
	}{
		Values: a.series.Values(),
		Paused: a.series.Paused(),
		Bounds: a.series.Bounds(),
	}
	err := json.NewEncoder(w).Encode(resp)
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

// setBounds updates any subset of the four axis bounds; omitted fields
// keep their current setting.
func (a *api) setBounds(w http.ResponseWriter, req *http.Request) {
	var body struct {
		XMin *plot.Bound `json:"xmin"`
		XMax *plot.Bound `json:"xmax"`
		YMin *plot.Bound `json:"ymin"`
		YMax *plot.Bound `json:"ymax"`
	}
	err := json.NewDecoder(req.Body).Decode(&body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b := a.series.Bounds()
	if body.XMin != nil {
		b.XMin = *body.XMin
	}
	if body.XMax != nil {
		b.XMax = *body.XMax
	}
	if body.YMin != nil {
		b.YMin = *body.YMin
	}
	if body.YMax != nil {
		b.YMax = *body.YMax
	}
	a.series.SetBounds(b)

	err = json.NewEncoder(w).Encode(b)
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

func (a *api) togglePause(w http.ResponseWriter, req *http.Request) {
	paused := a.series.TogglePause()
	err := json.NewEncoder(w).Encode(map[string]bool{"paused": paused})
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}
