// Command report prints the order statistics summary as tables.
//
//	go run ./cmd/report -section apparel -from 2026-01-01 -to 2026-01-31
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"storefront/cmd"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"

	"github.com/labstack/gommon/log"
	"github.com/olekukonko/tablewriter"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	section := flag.String("section", "", "only count orders of this section")
	from := flag.String("from", "", "first day (YYYY-MM-DD)")
	to := flag.String("to", "", "last day (YYYY-MM-DD), inclusive")
	flag.Parse()

	filter, err := parseFilter(*section, *from, *to)
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	query, err := queries.NewOrderStatsQuery(filter)
	if err != nil {
		log.Fatalf("Invalid filter: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stats, err := queries.NewOrderStatsQueryHandler(gormDB).Handle(ctx, query)
	if err != nil {
		log.Fatalf("Failed to compute stats: %v", err)
	}

	if err = render(os.Stdout, stats); err != nil {
		log.Fatalf("Failed to render report: %v", err)
	}
}

func parseFilter(section, from, to string) (queries.OrderFilter, error) {
	var filter queries.OrderFilter
	if section != "" {
		s, err := kernel.ParseSection(section)
		if err != nil {
			return queries.OrderFilter{}, err
		}
		filter.Section = &s
	}
	if from != "" {
		t, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return queries.OrderFilter{}, fmt.Errorf("-from: %w", err)
		}
		filter.DateFrom = &t
	}
	if to != "" {
		t, err := time.Parse(time.DateOnly, to)
		if err != nil {
			return queries.OrderFilter{}, fmt.Errorf("-to: %w", err)
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &end
	}
	return filter, nil
}

func render(w io.Writer, stats queries.OrderStatsQueryResponse) error {
	summary := tablewriter.NewWriter(w)
	summary.Header("Orders", "Revenue (paid)", "Average order value")
	if err := summary.Append([]string{
		strconv.FormatInt(stats.TotalOrders, 10), stats.TotalRevenue, stats.AverageOrderValue,
	}); err != nil {
		return err
	}
	if err := summary.Render(); err != nil {
		return err
	}

	breakdown := tablewriter.NewWriter(w)
	breakdown.Header("Group", "Key", "Orders", "Revenue")
	groups := []struct {
		name    string
		buckets []queries.StatsBucket
	}{
		{"payment", stats.ByPaymentStatus},
		{"fulfillment", stats.ByFulfillmentStatus},
		{"section", stats.BySection},
	}
	for _, g := range groups {
		for _, b := range g.buckets {
			if err := breakdown.Append([]string{g.name, b.Key, strconv.FormatInt(b.Count, 10), b.Revenue}); err != nil {
				return err
			}
		}
	}
	return breakdown.Render()
}
