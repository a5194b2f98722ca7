package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/hr-core/internal/leave"
	"github.com/frahmantamala/hr-core/internal/textgen"
	"github.com/frahmantamala/hr-core/pkg/logger"
	"github.com/spf13/cobra"
)

var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Leave utilities",
}

var (
	leaveEmployeeID int64
	leaveType       string
	leaveStart      string
	leaveEnd        string
)

var leaveCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether an employee's credits cover a leave period",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := mustLoadConfig()
		lg := logger.LoggerWrapper()

		store, err := openStore(ctx, cfg, lg, nil)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}
		defer store.Close()

		emp, err := store.GetEmployee(leaveEmployeeID)
		if err != nil {
			log.Fatalf("%v", err)
		}

		// The availability wording is computed locally; no API call is made.
		client := textgen.NewClient(textgen.Config{}, logger.Discard())
		fmt.Println(client.CheckLeaveAvailability(emp.Name, emp.LeaveCredits, leave.Type(leaveType), leaveStart, leaveEnd, store.Settings().Holidays))
	},
}

func init() {
	leaveCheckCmd.Flags().Int64Var(&leaveEmployeeID, "employee", 0, "employee id")
	leaveCheckCmd.Flags().StringVar(&leaveType, "type", string(leave.TypeVacation), "leave type")
	leaveCheckCmd.Flags().StringVar(&leaveStart, "start", "", "first day, YYYY-MM-DD")
	leaveCheckCmd.Flags().StringVar(&leaveEnd, "end", "", "last day, YYYY-MM-DD")
	_ = leaveCheckCmd.MarkFlagRequired("employee")
	_ = leaveCheckCmd.MarkFlagRequired("start")
	_ = leaveCheckCmd.MarkFlagRequired("end")

	leaveCmd.AddCommand(leaveCheckCmd)
	rootCmd.AddCommand(leaveCmd)
}
