package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apache/iceberg-go"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage catalog tables",
	Long: `Manage tables within the catalog.

Examples:
  glacier table list analytics                       # List tables in a namespace
  glacier table create analytics.events              # Create a table
  glacier table drop analytics.events                # Drop a table
  glacier table rename analytics.events ops.events   # Rename a table
  glacier table describe analytics.events            # Show table details`,
}

var tableListCmd = &cobra.Command{
	Use:   "list <namespace>",
	Short: "List tables in a namespace",
	Args:  cobra.ExactArgs(1),
	RunE:  runTableList,
}

var tableCreateCmd = &cobra.Command{
	Use:   "create <namespace.table>",
	Short: "Create a new table",
	Long: `Create a new table with a minimal single-column schema.

The table location is resolved from, in order: the --location flag, the
namespace "location" property, the configured warehouse.

Examples:
  glacier table create analytics.events
  glacier table create analytics.events --location s3://bucket/events`,
	Args: cobra.ExactArgs(1),
	RunE: runTableCreate,
}

var tableDropCmd = &cobra.Command{
	Use:   "drop <namespace.table>",
	Short: "Drop a table",
	Args:  cobra.ExactArgs(1),
	RunE:  runTableDrop,
}

var tableRenameCmd = &cobra.Command{
	Use:   "rename <from> <to>",
	Short: "Rename a table",
	Long: `Rename a table, keeping its metadata untouched.

If a previous rename was interrupted and left a stale source record,
run with --repair to reconcile it.`,
	Args: cobra.ExactArgs(2),
	RunE: runTableRename,
}

var tableDescribeCmd = &cobra.Command{
	Use:   "describe <namespace.table>",
	Short: "Show table metadata details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTableDescribe,
}

type tableCreateOptions struct {
	location   string
	properties map[string]string
}

type tableRenameOptions struct {
	repair bool
}

var (
	tableCreateOpts = &tableCreateOptions{}
	tableRenameOpts = &tableRenameOptions{}
)

func init() {
	rootCmd.AddCommand(tableCmd)

	tableCmd.AddCommand(tableListCmd)
	tableCmd.AddCommand(tableCreateCmd)
	tableCmd.AddCommand(tableDropCmd)
	tableCmd.AddCommand(tableRenameCmd)
	tableCmd.AddCommand(tableDescribeCmd)

	tableCreateCmd.Flags().StringVar(&tableCreateOpts.location, "location", "", "explicit table location")
	tableCreateCmd.Flags().StringToStringVar(&tableCreateOpts.properties, "property", nil, "table properties (key=value)")

	tableRenameCmd.Flags().BoolVar(&tableRenameOpts.repair, "repair", false, "reconcile a stale record left by an interrupted rename")
}

func runTableList(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog(cmd)
	if err != nil {
		return err
	}

	var names []string
	for ident, err := range cat.ListTables(cmd.Context(), parseIdentifier(args[0])) {
		if err != nil {
			return err
		}
		names = append(names, strings.Join(ident, "."))
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runTableCreate(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog(cmd)
	if err != nil {
		return err
	}

	schema := iceberg.NewSchema(1, iceberg.NestedField{
		ID:       1,
		Name:     "id",
		Type:     iceberg.PrimitiveTypes.Int64,
		Required: true,
	})
	properties := iceberg.Properties{}
	for k, v := range tableCreateOpts.properties {
		properties[k] = v
	}

	tbl, err := cat.CreateTableAt(cmd.Context(), parseIdentifier(args[0]), schema, tableCreateOpts.location, properties)
	if err != nil {
		return err
	}
	fmt.Printf("Created table %s\n", args[0])
	fmt.Printf("Metadata: %s\n", tbl.MetadataLocation())
	return nil
}

func runTableDrop(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog(cmd)
	if err != nil {
		return err
	}

	if err := cat.DropTable(cmd.Context(), parseIdentifier(args[0])); err != nil {
		return err
	}
	fmt.Printf("Dropped table %s\n", args[0])
	return nil
}

func runTableRename(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog(cmd)
	if err != nil {
		return err
	}

	from := parseIdentifier(args[0])
	to := parseIdentifier(args[1])

	if tableRenameOpts.repair {
		if err := cat.RepairRename(cmd.Context(), from, to); err != nil {
			return err
		}
		fmt.Printf("Reconciled rename %s -> %s\n", args[0], args[1])
		return nil
	}

	if _, err := cat.RenameTable(cmd.Context(), from, to); err != nil {
		return err
	}
	fmt.Printf("Renamed table %s -> %s\n", args[0], args[1])
	return nil
}

func runTableDescribe(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog(cmd)
	if err != nil {
		return err
	}

	tbl, err := cat.LoadTable(cmd.Context(), parseIdentifier(args[0]), nil)
	if err != nil {
		return err
	}

	md := tbl.Metadata()
	fmt.Printf("Table:        %s\n", args[0])
	fmt.Printf("UUID:         %s\n", md.TableUUID())
	fmt.Printf("Location:     %s\n", md.Location())
	fmt.Printf("Metadata:     %s\n", tbl.MetadataLocation())
	fmt.Printf("Schema:       %s\n", md.CurrentSchema())
	if len(md.Properties()) > 0 {
		keys := make([]string, 0, len(md.Properties()))
		for k := range md.Properties() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println("Properties:")
		for _, k := range keys {
			fmt.Printf("  %s=%s\n", k, md.Properties()[k])
		}
	}
	return nil
}
