package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"lintang/walkability/pkg/facility"
	"lintang/walkability/pkg/kv"
	"lintang/walkability/pkg/osmparser"

	"github.com/cockroachdb/pebble"
)

var (
	mapFile = flag.String("f", "solo_jogja.osm.pbf", "openstreetmap pbf file for the walking network")
	region  = flag.String("region", "default", "region name the snapshot is stored under")
	dbPath  = flag.String("db", "walkabilityDB", "pebble directory")
)

func main() {
	flag.Parse()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	classifier, err := facility.NewClassifier(facility.DefaultCategories())
	if err != nil {
		log.Fatal(err)
	}

	osmParser := osmparser.NewOSMParser(classifier.DownloadTags(), logger, true)
	snap, err := osmParser.ParseFile(context.Background(), *mapFile)
	if err != nil {
		log.Fatal(err)
	}

	db, err := pebble.Open(*dbPath, &pebble.Options{})
	if err != nil {
		log.Fatal(err)
	}
	kvDB := kv.NewKVDB(db)
	defer kvDB.Close()

	if err := kvDB.SaveSnapshot(kv.RegionKey(*region), snap); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\nregion %s ready: %d nodes, %d edges, %d pois\n",
		*region, snap.Graph.NumNodes(), snap.Graph.NumEdges(), len(snap.POIs))
}
