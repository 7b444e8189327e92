package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"docmanager/internal/config"
	"docmanager/internal/logging"
	"docmanager/internal/store"
)

func main() {
	onlyEmpty := flag.Bool("only-empty", false, "seed collections that do not exist yet and leave the rest alone")
	flag.Parse()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	ctx := context.Background()

	st, closeStore, err := store.Open(ctx, cfg, store.WithLogger(log))
	if err != nil {
		log.WithError(err).Fatal("store init")
	}
	defer closeStore()

	if *onlyEmpty {
		// loading seeds whichever collection is missing
		if _, err := st.LoadUsers(ctx); err != nil {
			log.WithError(err).Fatal("seed users")
		}
		if _, err := st.LoadDocuments(ctx); err != nil {
			log.WithError(err).Fatal("seed documents")
		}
		log.Info("seed check complete")
		return
	}

	if err := st.Reset(ctx); err != nil {
		log.WithError(err).Fatal("reset store")
	}
	for _, c := range store.SeedCredentials {
		log.WithFields(logrus.Fields{"account": c.Email, "role": c.Role}).Info("seed account available")
	}
}
