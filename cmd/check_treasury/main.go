package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vitos/ust_basket/internal/config"
	"github.com/vitos/ust_basket/internal/domain"
	"github.com/vitos/ust_basket/internal/infrastructure/treasury"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config, using defaults: %v\n", err)
		cfg = config.Default()
	}

	fmt.Printf("Testing TreasuryDirect...\n")
	fmt.Printf("Endpoint: %s\n", cfg.Treasury.BaseURL)

	client := treasury.NewClient(cfg.Treasury.BaseURL, cfg.TreasuryTimeout(), 0, nil, nil)
	ctx := context.Background()

	failed := false
	for _, class := range []domain.SecurityClass{domain.ClassNote, domain.ClassBond} {
		start := time.Now()
		records, err := client.FetchSecurities(ctx, class)
		if err != nil {
			fmt.Printf("❌ Failed to fetch %s list: %v\n", class, err)
			failed = true
			continue
		}

		withoutCoupon := 0
		for _, r := range records {
			if r.InterestRate == "" {
				withoutCoupon++
			}
		}
		fmt.Printf("✅ %s: %d records (%d without coupon) in %s\n", class, len(records), withoutCoupon, time.Since(start).Round(time.Millisecond))
	}

	if failed {
		os.Exit(1)
	}
}
