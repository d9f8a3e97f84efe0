// Command previewd streams a pipeline run's incremental snapshots to a
// browser over a websocket, grounded on the teacher's server_main/main.go
// bootstrap (flag-driven port/max-connections, netutil.LimitListener) and
// server/socket_client.go's upgrader/write-pump shape.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"

	"golang.org/x/net/netutil"

	"mapgen/params"
)

func main() {
	var port, maxConnections int
	var paramsPath string

	flag.IntVar(&port, "port", 8193, "http service port")
	flag.IntVar(&maxConnections, "max-connections", 64, "maximum number of inbound TCP connections")
	flag.StringVar(&paramsPath, "params", "", "path to a params JSON document (defaults built in if omitted)")
	flag.Parse()

	p := params.Default()
	if paramsPath != "" {
		loaded, err := params.Load(paramsPath)
		if err != nil {
			log.Fatalf("loading params: %v", err)
		}
		p = loaded
	}
	if err := p.Validate(); err != nil {
		log.Fatalf("invalid params: %v", err)
	}

	http.HandleFunc("/ws", newPreviewHandler(p))

	l, err := net.Listen("tcp", fmt.Sprint(":", port))
	if err != nil {
		log.Fatalf("Listen: %v", err)
	}
	defer l.Close()

	l = netutil.LimitListener(l, maxConnections)

	log.Printf("previewd listening on :%d", port)
	log.Fatal("ListenAndServe: ", http.Serve(l, nil))
}
