// Package client is a Go client for the stationview HTTP API.
//
//	c, _ := client.New("http://localhost:8080")
//	fields, _ := c.Schema(ctx)
//	page, _ := c.Query().
//	    Gt("availableBikes", 10).
//	    Eq("status", "OPEN").
//	    OrderBy("availableBikes", client.Asc).
//	    Page(1).PageSize(10).
//	    Do(ctx)
//	station, err := c.Station(ctx, 42)
//	if errors.Is(err, client.ErrNotFound) { ... }
package client
