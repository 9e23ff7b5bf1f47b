package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"vocalog/internal/cli"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Device and location breakdowns",
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(_ *cobra.Command, _ []string) error {
	cfg, st, err := loadData()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	userID, err := resolveUser(cfg)
	if err != nil {
		return err
	}
	opts, err := reportOptions(cfg)
	if err != nil {
		return err
	}

	r, err := assembler(cfg, st).CachedDailyUse(ctx, userID, opts)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DEVICES & PLACES  %s", windowLabel(r.StartAt, r.EndAt))))
	fmt.Println()

	known, err := st.ListDevices(ctx, userID)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(known))
	for _, d := range known {
		names[d.ID] = d.Name
	}

	deviceIDs := make([]string, 0, len(r.Devices))
	for id := range r.Devices {
		deviceIDs = append(deviceIDs, id)
	}
	sort.Slice(deviceIDs, func(i, j int) bool {
		return r.Devices[deviceIDs[i]].SessionCount > r.Devices[deviceIDs[j]].SessionCount
	})

	if len(deviceIDs) == 0 {
		fmt.Println("  No device activity in window.")
	} else {
		rows := make([][]string, 0, len(deviceIDs))
		for _, id := range deviceIDs {
			d := r.Devices[id]
			name := d.Name
			if name == "" {
				name = names[id]
			}
			if name == "" {
				name = id
			}
			lastUsed := ""
			if d.EndedAt != nil {
				lastUsed = d.EndedAt.Format("2006-01-02")
			}
			rows = append(rows, []string{
				name,
				cli.FormatNumber(int64(d.SessionCount)),
				lastUsed,
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Devices",
			Headers: []string{"Device", "Sessions", "Last used"},
			Rows:    rows,
		}))
	}

	if len(r.Locations) > 0 {
		fmt.Println()
		locIDs := make([]string, 0, len(r.Locations))
		for id := range r.Locations {
			locIDs = append(locIDs, id)
		}
		sort.Slice(locIDs, func(i, j int) bool {
			return r.Locations[locIDs[i]].SessionCount > r.Locations[locIDs[j]].SessionCount
		})

		rows := make([][]string, 0, len(locIDs))
		for _, id := range locIDs {
			l := r.Locations[id]
			where := id
			switch {
			case l.Geo != nil:
				where = fmt.Sprintf("%.4f, %.4f", l.Geo.Latitude, l.Geo.Longitude)
			case l.ReadableIP != "":
				where = l.ReadableIP
			case l.IPAddress != "":
				where = l.IPAddress
			}
			rows = append(rows, []string{
				where,
				l.Type,
				cli.FormatNumber(int64(l.SessionCount)),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Places",
			Headers: []string{"Where", "Type", "Sessions"},
			Rows:    rows,
		}))
	}

	return nil
}
