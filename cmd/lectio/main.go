// Command lectio renders liturgical reading payloads into PowerPoint decks
// and builds payloads from the USCCB Spanish readings feed.
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/autolectio/lectio/core/assemble"
	"github.com/autolectio/lectio/core/digest"
	"github.com/autolectio/lectio/core/payload"
	"github.com/autolectio/lectio/core/pptx"
	"github.com/autolectio/lectio/core/tokens"
	"github.com/autolectio/lectio/internal/feedcache"
	"github.com/autolectio/lectio/internal/fileutil"
	"github.com/autolectio/lectio/internal/lectionary"
	"github.com/autolectio/lectio/internal/logging"
)

const version = "0.2.0"

// CLI defines the command-line interface for lectio.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" default:"text" help:"Log format (text, json)"`

	Render  RenderCmd  `cmd:"" help:"Render a payload into a template deck"`
	Fetch   FetchCmd   `cmd:"" help:"Fetch readings from the USCCB feed and build a payload"`
	Inspect InspectCmd `cmd:"" help:"Print a template's slide and token inventory"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// RenderCmd fills a template deck from a payload.
type RenderCmd struct {
	Template string `name:"template" short:"t" required:"" type:"existingfile" help:"Template .pptx path"`
	Payload  string `name:"payload" short:"p" required:"" type:"existingfile" help:"Payload .json or .json.xz path"`
	Out      string `name:"out" short:"o" required:"" help:"Output .pptx path"`
	Stamp    bool   `help:"Append a timestamp to the output filename"`
	Verbose  bool   `short:"v" help:"Log per-slide token inventories and chunk previews"`
	ChunkMin int    `name:"chunk-min" default:"100" help:"Chunk packing lower bound in characters"`
	ChunkMax int    `name:"chunk-max" default:"140" help:"Chunk packing upper bound in characters"`
}

func (c *RenderCmd) Run() error {
	if c.Verbose {
		logging.InitLogger(logging.LevelDebug, logging.ParseFormat(CLI.LogFormat))
	}
	log := logging.GetLogger()
	runID := uuid.New().String()

	tmplDigest, err := digest.SumFile(c.Template)
	if err != nil {
		return err
	}
	log.Info("render start",
		"run_id", runID,
		"template", c.Template,
		"template_sha256", tmplDigest.SHA256,
		"payload", c.Payload)

	pl, err := payload.Load(c.Payload)
	if err != nil {
		return err
	}
	pkg, err := pptx.Open(c.Template)
	if err != nil {
		return err
	}

	res, err := assemble.Assemble(pkg, pl, assemble.Options{
		TargetMin: c.ChunkMin,
		TargetMax: c.ChunkMax,
		Verbose:   c.Verbose,
	})
	if err != nil {
		return err
	}

	out := c.Out
	if c.Stamp {
		out = fileutil.Stamp(out, time.Now())
	}
	if err := pkg.Save(out); err != nil {
		return err
	}

	outDigest, err := digest.SumFile(out)
	if err != nil {
		return err
	}
	log.Info("render done",
		"run_id", runID,
		"out", out,
		"out_sha256", outDigest.SHA256,
		"out_blake3", outDigest.BLAKE3,
		"slides", res.SlideCount,
		"created", res.SlidesCreated)

	fmt.Printf("wrote: %s (%d slides, %d created)\n", out, res.SlideCount, res.SlidesCreated)
	if !res.Complete() {
		return fmt.Errorf("output is not token-complete, unresolved: %v", res.Unresolved)
	}
	return nil
}

// FetchCmd builds a payload JSON from the feed.
type FetchCmd struct {
	Date     string `help:"Target date (YYYY-MM-DD, MM-DD-YY or MM/DD/YY), default today"`
	Out      string `help:"Output path (default out/<date>.es-US.json)"`
	Compress bool   `help:"Write xz-compressed JSON"`
	CacheDB  string `name:"cache-db" default:"out/feedcache.db" help:"SQLite feed cache path"`
	NoCache  bool   `name:"no-cache" help:"Skip the feed cache"`
	FeedURL  string `name:"feed-url" default:"${feed_url}" help:"Feed URL"`
	ChunkMin int    `name:"chunk-min" default:"100" help:"Chunk packing lower bound in characters"`
	ChunkMax int    `name:"chunk-max" default:"140" help:"Chunk packing upper bound in characters"`
}

func (c *FetchCmd) Run() error {
	log := logging.GetLogger()
	ctx := context.Background()

	target := time.Now()
	if c.Date != "" {
		var err error
		if target, err = lectionary.ParseDate(c.Date); err != nil {
			return err
		}
	}
	key := lectionary.DateKey(target)

	var cache *feedcache.Cache
	if !c.NoCache {
		var err error
		if cache, err = feedcache.Open(c.CacheDB); err != nil {
			return err
		}
		defer cache.Close()
	}

	item, err := c.lookup(ctx, cache, target, key)
	if err != nil {
		return err
	}

	sections, err := lectionary.ParseSections(lectionary.StripFooter(item.Description))
	if err != nil {
		return err
	}
	ph := lectionary.Placeholders(item.Title, sections)
	chunks := lectionary.MakeChunks(ph, c.ChunkMax, c.ChunkMin)
	pl := lectionary.BuildPayload(target, item, ph, chunks)
	if err := pl.Validate(); err != nil {
		return err
	}

	out := c.Out
	if out == "" {
		name := target.Format("2006-01-02") + ".es-US.json"
		if c.Compress {
			name += ".xz"
		}
		out = filepath.Join("out", name)
	}
	if err := pl.Write(out, c.Compress); err != nil {
		return err
	}

	log.Info("fetch done", "date", target.Format("2006-01-02"), "out", out, "sections", len(sections))
	fmt.Printf("wrote: %s\n", out)
	fmt.Printf("title: %s\n", item.Title)
	for _, tok := range tokens.Chunkable() {
		if n := len(pl.Chunks[tok]); n > 0 {
			fmt.Printf("%s: %d chunks\n", tok, n)
		}
	}
	return nil
}

// lookup serves the item from the cache when possible, fetching and caching
// otherwise.
func (c *FetchCmd) lookup(ctx context.Context, cache *feedcache.Cache, target time.Time, key string) (*lectionary.Item, error) {
	log := logging.GetLogger()
	if cache != nil {
		if item, ok, err := cache.Get(ctx, key); err != nil {
			return nil, err
		} else if ok {
			log.Debug("feed cache hit", "key", key)
			return item, nil
		}
	}

	items, err := lectionary.Fetch(ctx, nil, c.FeedURL)
	if err != nil {
		return nil, err
	}
	item := lectionary.PickItem(items, target)
	if item == nil {
		return nil, fmt.Errorf("no feed item for date key %s", key)
	}
	if cache != nil {
		if err := cache.Put(ctx, key, item); err != nil {
			log.Warn("feed cache write failed", "err", err)
		}
	}
	return item, nil
}

// InspectCmd prints a template's structure without rendering.
type InspectCmd struct {
	Template string `name:"template" short:"t" required:"" type:"existingfile" help:"Template .pptx path"`
}

func (c *InspectCmd) Run() error {
	d, err := digest.SumFile(c.Template)
	if err != nil {
		return err
	}
	pkg, err := pptx.Open(c.Template)
	if err != nil {
		return err
	}

	fmt.Printf("template: %s\n", c.Template)
	fmt.Printf("sha256:   %s\n", d.SHA256)
	fmt.Printf("blake3:   %s\n", d.BLAKE3)
	fmt.Printf("parts:    %d\n", len(pkg.PartNames()))
	fmt.Printf("slides:   %d\n", len(pkg.Slides()))

	idx := assemble.BuildIndex(pkg)
	for _, tok := range idx.Tokens() {
		var at []int
		for _, loc := range idx.Locations(tok) {
			at = append(at, loc.SlideIdx)
		}
		fmt.Printf("  %-22s slides %v\n", tok, at)
	}
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("lectio version %s (sqlite driver: %s)\n", version, feedcache.DriverType())
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("lectio"),
		kong.Description("Liturgical reading deck renderer for the USCCB Spanish lectionary"),
		kong.UsageOnError(),
		kong.Vars{"feed_url": lectionary.FeedURL},
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
