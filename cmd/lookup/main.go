// Comando lookup: exemplo de uso do gateway embutido no processo (sem HTTP).
//
//	lookup -dot 86803
//	lookup -mc 123456
//	lookup -batch 86803,mc:123456,2233
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"carrier-gateway/carrier/registry"
	"carrier-gateway/carrier/registry/domain"
)

func main() {
	dot := flag.String("dot", "", "DOT number")
	mc := flag.String("mc", "", "MC (docket) number")
	batch := flag.String("batch", "", "comma-separated ids; prefix with mc: for docket numbers")
	flag.Parse()

	cfg, err := registry.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := registry.NewLogger(os.Stderr, cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// o CLI não usa Redis nem Prometheus
	cfg.StatsRedisEnabled = false
	svc, err := registry.New(ctx, cfg, logger, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = svc.Close() }()

	var out any
	ok := true
	switch {
	case *batch != "":
		res := svc.Gateway.BatchLookup(ctx, parseBatch(*batch))
		ok = res.Summary.Failed == 0
		out = res
	case *mc != "":
		res := svc.Gateway.LookupBySecondaryID(ctx, *mc)
		ok = res.Success
		out = res
	case *dot != "":
		res := svc.Gateway.LookupByPrimaryID(ctx, *dot)
		ok = res.Success
		out = res
	default:
		flag.Usage()
		os.Exit(2)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
	if !ok {
		os.Exit(1)
	}
}

func parseBatch(s string) []domain.BatchItem {
	var items []domain.BatchItem
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, found := strings.CutPrefix(strings.ToLower(part), "mc:"); found {
			items = append(items, domain.BatchItem{SecondaryID: id})
			continue
		}
		items = append(items, domain.BatchItem{PrimaryID: part})
	}
	return items
}
