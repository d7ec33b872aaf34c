package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shoefinder/backend/internal/domain"
	"github.com/shoefinder/backend/internal/usecase"
)

func newSearchCmd() *cobra.Command {
	var size, gender string

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search shoes and print the JSON response",
		Long: `Search the catalog and print the search response as JSON.

Examples:
  shoesearch search tree runner
  shoesearch search runner --size 42
  shoesearch search lounger --gender men`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(gender) != "" && usecase.NormalizeGender(gender) == "" {
				return fmt.Errorf("%w: --gender must be %q or %q", domain.ErrInvalidRequest, domain.GenderMen, domain.GenderWomen)
			}

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			resp := a.Search.Search(cmd.Context(), &domain.SearchRequest{
				Query:  strings.Join(args, " "),
				Size:   size,
				Gender: gender,
			})

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(resp); err != nil {
				return err
			}

			if resp.Failed() {
				return errors.New(*resp.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&size, "size", "", "shoe size, US or EU (overrides a size in the query)")
	cmd.Flags().StringVar(&gender, "gender", "", "men or women")

	return cmd
}
