package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/Virginijus03/45-server/internal/server"
	"github.com/Virginijus03/45-server/internal/shared"
)

var configFile = flag.String("f", "", "The config file to read for settings.")

func main() {
	flag.Parse()

	cfg := shared.DefaultServerConfig()
	if *configFile != "" {
		var err error
		if cfg, err = shared.ReadServerConfig(*configFile); err != nil {
			logrus.WithError(err).Fatal("Error reading config file")
		}
	}

	if err := report(context.Background(), cfg.DBPath, os.Stdout); err != nil {
		logrus.WithError(err).WithField("db", cfg.DBPath).Fatal("DB check failed")
	}
}

// report migrates the database at path, so a fresh file works too, then
// prints its tables and the record count of every collection.
func report(ctx context.Context, path string, out io.Writer) error {
	db, err := server.OpenDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := server.RunMigrations(db, logrus.StandardLogger()); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' ORDER BY name;`)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Tables:")
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err == nil {
			fmt.Fprintln(out, " -", name)
		}
	}
	rows.Close()

	counts, err := server.NewSQLiteStore(db).CountByCollection(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(counts))
	for c := range counts {
		names = append(names, c)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "Records:")
	for _, c := range names {
		fmt.Fprintf(out, " - %s: %d\n", c, counts[c])
	}
	return nil
}
