package regions

import (
	"fmt"

	"github.com/spf13/cobra"

	pricingconfig "rucost/internal/pricing/config"
)

// NewRegionsCmd creates the regions command
func NewRegionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the supported pricing regions",
		Long: `List every region the cost model carries prices for, with the request-unit
price, the row-based storage price and the monthly free credit.`,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-16s %18s %18s %12s\n", "REGION", "RU ($/million)", "STORAGE ($/GB-mo)", "CREDIT ($)")
			for _, pt := range pricingconfig.Regions() {
				fmt.Fprintf(w, "%-16s %18s %18s %12s\n",
					pt.Region,
					pt.RUPricePerMillion.StringFixed(2),
					pt.StoragePricePerGBMonth.StringFixed(2),
					pt.FreeCredit.StringFixed(2))
			}
		},
	}

	return cmd
}
