package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newProvincesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "provinces",
		Short: "List the provinces present in the workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.Close()
			provs, err := sess.Provinces()
			if err != nil {
				return err
			}
			renderProvinces(cmd.OutOrStdout(), provs)
			return nil
		},
	}
}

func newCustomersCmd(opts *options) *cobra.Command {
	var province string
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Rank customers by total volume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.Close()
			if province == "" {
				all, err := sess.Summaries()
				if err != nil {
					return err
				}
				renderRanking(cmd.OutOrStdout(), all)
				return nil
			}
			ranking, err := sess.SelectProvince(province)
			if err != nil {
				return err
			}
			if len(ranking) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no customers in %s\n", province)
				return nil
			}
			renderRanking(cmd.OutOrStdout(), ranking)
			return nil
		},
	}
	cmd.Flags().StringVar(&province, "province", "", "only customers of this province")
	return cmd
}

func newCustomerCmd(opts *options) *cobra.Command {
	var province, id string
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Show a customer's card, purchase history and contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.Close()
			if _, err := sess.SelectProvince(province); err != nil {
				return err
			}
			view, err := sess.SelectCustomer(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			renderCard(out, view.Card)
			fmt.Fprintln(out)
			renderHistory(out, view.History)
			fmt.Fprintln(out)
			renderContacts(out, view.Contacts)
			return nil
		},
	}
	cmd.Flags().StringVar(&province, "province", "", "province of the customer (required)")
	cmd.Flags().StringVar(&id, "id", "", "customer id (required)")
	_ = cmd.MarkFlagRequired("province")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	var province, id, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the province ranking (and optionally one customer) to an XLSX report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.Close()
			if _, err := sess.SelectProvince(province); err != nil {
				return err
			}
			if id != "" {
				if _, err := sess.SelectCustomer(cmd.Context(), id); err != nil {
					return err
				}
			}
			data, err := sess.Export(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(filepath.Dir(opts.file), "sales-report.xlsx")
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&province, "province", "", "province to export (required)")
	cmd.Flags().StringVar(&id, "id", "", "customer to include")
	cmd.Flags().StringVar(&out, "out", "", "output XLSX path (defaults next to --file)")
	_ = cmd.MarkFlagRequired("province")
	return cmd
}
