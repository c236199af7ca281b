// Package sse streams pipeline output to browsers over Server-Sent
// Events: a Hub routes formatted event frames to subscribed clients by
// glob pattern, ServeSSE holds the HTTP connection open with keep-alives,
// and Sink turns any pipeline into a live event feed.
//
// # Usage
//
//	hub := sse.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	http.HandleFunc("/runs/", func(w http.ResponseWriter, r *http.Request) {
//		sse.ServeSSE(hub, w, r, "run:"+runID, sse.WithRunID(runID))
//	})
//
//	conduit.Connect(source, sse.Sink(hub, "run:*", sse.EventTypeMessage))
package sse
