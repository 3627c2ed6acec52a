package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apache/iceberg-go"
	"github.com/apache/iceberg-go/table"
	"github.com/spf13/cobra"
)

var namespaceCmd = &cobra.Command{
	Use:   "namespace",
	Short: "Manage catalog namespaces",
	Long: `Manage namespaces within the catalog.

Examples:
  glacier namespace list                     # List all namespaces
  glacier namespace create analytics         # Create 'analytics' namespace
  glacier namespace create warehouse.raw     # Create nested namespace
  glacier namespace drop test_namespace      # Drop empty namespace
  glacier namespace describe analytics       # Show namespace properties`,
}

var namespaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all namespaces in the catalog",
	RunE:  runNamespaceList,
}

var namespaceCreateCmd = &cobra.Command{
	Use:   "create <namespace>",
	Short: "Create a new namespace",
	Long: `Create a new namespace in the catalog.

Nested namespaces use dot notation. A "location" property overrides the
warehouse root for tables created under the namespace.

Examples:
  glacier namespace create analytics
  glacier namespace create warehouse.raw --property owner=etl
  glacier namespace create sandbox --location s3://bucket/sandbox`,
	Args: cobra.ExactArgs(1),
	RunE: runNamespaceCreate,
}

var namespaceDropCmd = &cobra.Command{
	Use:   "drop <namespace>",
	Short: "Drop an empty namespace",
	Args:  cobra.ExactArgs(1),
	RunE:  runNamespaceDrop,
}

var namespaceDescribeCmd = &cobra.Command{
	Use:   "describe <namespace>",
	Short: "Show the properties of a namespace",
	Args:  cobra.ExactArgs(1),
	RunE:  runNamespaceDescribe,
}

type namespaceListOptions struct {
	parent string
}

type namespaceCreateOptions struct {
	properties map[string]string
	location   string
}

var (
	namespaceListOpts   = &namespaceListOptions{}
	namespaceCreateOpts = &namespaceCreateOptions{}
)

func init() {
	rootCmd.AddCommand(namespaceCmd)

	namespaceCmd.AddCommand(namespaceListCmd)
	namespaceCmd.AddCommand(namespaceCreateCmd)
	namespaceCmd.AddCommand(namespaceDropCmd)
	namespaceCmd.AddCommand(namespaceDescribeCmd)

	namespaceListCmd.Flags().StringVar(&namespaceListOpts.parent, "parent", "", "list namespaces under a specific parent")

	namespaceCreateCmd.Flags().StringToStringVar(&namespaceCreateOpts.properties, "property", nil, "namespace properties (key=value)")
	namespaceCreateCmd.Flags().StringVar(&namespaceCreateOpts.location, "location", "", "base location for tables in this namespace")
}

// parseIdentifier splits dot notation into identifier segments.
func parseIdentifier(s string) table.Identifier {
	return table.Identifier(strings.Split(s, "."))
}

func runNamespaceList(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog(cmd)
	if err != nil {
		return err
	}

	var parent table.Identifier
	if namespaceListOpts.parent != "" {
		parent = parseIdentifier(namespaceListOpts.parent)
	}

	namespaces, err := cat.ListNamespaces(cmd.Context(), parent)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(namespaces))
	for _, ns := range namespaces {
		names = append(names, strings.Join(ns, "."))
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runNamespaceCreate(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog(cmd)
	if err != nil {
		return err
	}

	properties := iceberg.Properties{}
	for k, v := range namespaceCreateOpts.properties {
		properties[k] = v
	}
	if namespaceCreateOpts.location != "" {
		properties["location"] = namespaceCreateOpts.location
	}

	namespace := parseIdentifier(args[0])
	if err := cat.CreateNamespace(cmd.Context(), namespace, properties); err != nil {
		return err
	}
	fmt.Printf("Created namespace %s\n", args[0])
	return nil
}

func runNamespaceDrop(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog(cmd)
	if err != nil {
		return err
	}

	if err := cat.DropNamespace(cmd.Context(), parseIdentifier(args[0])); err != nil {
		return err
	}
	fmt.Printf("Dropped namespace %s\n", args[0])
	return nil
}

func runNamespaceDescribe(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog(cmd)
	if err != nil {
		return err
	}

	properties, err := cat.LoadNamespaceProperties(cmd.Context(), parseIdentifier(args[0]))
	if err != nil {
		return err
	}
	if len(properties) == 0 {
		fmt.Printf("Namespace %s has no properties\n", args[0])
		return nil
	}

	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, properties[k])
	}
	return nil
}
