package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"leet_tracker/internal/app/importer"
	"leet_tracker/internal/app/service"
	"leet_tracker/internal/domain/model"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate-usernames [default-username]",
	Short: "Assign every progress record without a username to one user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		res, err := svc.progress.MigrateLegacyUsernames(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("✅ %s (%d records total)\n", res.Message, res.TotalRecords)
		return nil
	},
}

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List the companies questions are tagged with",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		companies, err := svc.questions.ListCompanies(cmd.Context())
		if err != nil {
			return err
		}
		if len(companies) == 0 {
			fmt.Println("No companies yet.")
			return nil
		}
		for _, c := range companies {
			fmt.Println("-", c)
		}
		return nil
	},
}

var (
	addTitle       string
	addDifficulty  string
	addCategory    string
	addCompany     string
	addURL         string
	addDescription string
)

var addQuestionCmd = &cobra.Command{
	Use:   "add-question",
	Short: "Add a question to the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		q, err := svc.questions.AddQuestion(cmd.Context(), service.AddQuestionRequest{
			Title:       addTitle,
			Difficulty:  model.Difficulty(addDifficulty),
			Category:    addCategory,
			Company:     &addCompany,
			URL:         &addURL,
			Description: &addDescription,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✅ Added '%s' [%s] id=%s slug=%s\n", q.Title, q.Difficulty, q.ID, q.Slug)
		return nil
	},
}

var importSheet string

var importCmd = &cobra.Command{
	Use:   "import-questions [file.xlsx]",
	Short: "Seed the catalog from a spreadsheet (title, difficulty, category, company, url, description)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		cfg := importer.DefaultConfig()
		cfg.SheetName = importSheet
		res, err := importer.New(svc.questions).ImportFile(cmd.Context(), args[0], cfg)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Imported %d of %d rows (%d already present)\n", res.Created, res.Processed, res.Skipped)
		for _, e := range res.Errors {
			fmt.Println("⚠️", e)
		}
		return nil
	},
}

var summaryUser string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a user's TODO / IN_PROGRESS / DONE counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		s, err := svc.questions.ProgressSummary(cmd.Context(), summaryUser)
		if err != nil {
			return err
		}
		who := model.OwnerFor(summaryUser).DisplayName()
		fmt.Printf("📊 %s: %d done, %d in progress, %d todo (%d questions)\n", who, s.Done, s.InProgress, s.Todo, s.Total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, companiesCmd, addQuestionCmd, importCmd, summaryCmd)

	addQuestionCmd.Flags().StringVar(&addTitle, "title", "", "Question title")
	addQuestionCmd.Flags().StringVarP(&addDifficulty, "difficulty", "d", "", "Easy, Medium or Hard")
	addQuestionCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category, e.g. Array")
	addQuestionCmd.Flags().StringVar(&addCompany, "company", "", "Company that asks it")
	addQuestionCmd.Flags().StringVarP(&addURL, "url", "u", "", "Link to the problem")
	addQuestionCmd.Flags().StringVar(&addDescription, "description", "", "Short description")
	addQuestionCmd.MarkFlagRequired("title")
	addQuestionCmd.MarkFlagRequired("difficulty")
	addQuestionCmd.MarkFlagRequired("category")

	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Sheet to read (default: first sheet)")

	summaryCmd.Flags().StringVar(&summaryUser, "user", "", "Username (empty for the legacy slot)")
}
