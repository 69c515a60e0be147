package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/gregpinero/ArduinoPlot/plot"
	"github.com/gregpinero/ArduinoPlot/serialdata"
	"github.com/gregpinero/ArduinoPlot/spjs"
)

func main() {
	log.SetFlags(log.Lshortfile)

	port := flag.String("port", "/dev/ttyUSB0", "Port path (or name if using SPJS).")
	baud := flag.Int("baud", serialdata.DefaultBaud, "Port baud rate.")
	timeout := flag.Duration("timeout", serialdata.DefaultTimeout, "Port read timeout.")
	spjsURL := flag.String("spjs", "", "Websocket URL of an SPJS server to use instead of opening the port locally.")
	addr := flag.String("addr", ":9091", "Address to bind the chart server to.")
	flag.Parse()

	var source *serialdata.SampleSource
	if *spjsURL != "" {
		sp := spjs.NewClient(*spjsURL)
		source = serialdata.NewStreamSource(sp.OpenPort(*port, *baud))
	} else {
		source = serialdata.NewSampleSource(serialdata.Config{
			Port:    *port,
			Baud:    *baud,
			Timeout: *timeout,
		})
	}

	series := plot.NewSeries(source.Next())

	api := newAPI(source, series)

	err := http.ListenAndServe(*addr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
		api.ServeHTTP(w, req)
	}))
	if err != nil {
		log.Fatal(err)
	}
}
