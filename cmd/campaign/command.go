package campaign

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	internalcampaign "go.miloapis.com/email-provider-activecampaign/internal/campaign"
	"go.miloapis.com/email-provider-activecampaign/internal/config"
	"go.miloapis.com/email-provider-activecampaign/internal/contacts"
	"go.miloapis.com/email-provider-activecampaign/pkg/activecampaign"
)

// CreateCampaignCommand returns a cobra command that creates a mailing list,
// subscribes the contacts from a CSV file, and schedules a single HTML campaign.
func CreateCampaignCommand() *cobra.Command {
	var (
		sender                             internalcampaign.Sender
		name, sendDate, subject            string
		htmlPath, contactsPath, configPath string
		timeout                            time.Duration
	)

	opts := zap.Options{
		Level: zapcore.InfoLevel,
	}

	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Create and schedule a single email campaign",
		Long: "Create a mailing list for the campaign, add every contact from the contacts CSV " +
			"(email, first_name, last_name), create an HTML message and schedule it for delivery.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logf.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
			log := logf.Log.WithName("campaign")
			ctx := logf.IntoContext(cmd.Context(), log)

			date, err := time.Parse(activecampaign.SendDateLayout, sendDate)
			if err != nil {
				return fmt.Errorf("invalid campaign date %q, expected YYYY-MM-DD hh:mm:ss: %w", sendDate, err)
			}
			sendDate = activecampaign.FormatSendDate(date)

			cfg, err := config.Load(ctx, configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			html, err := os.ReadFile(htmlPath)
			if err != nil {
				return fmt.Errorf("failed to read html file: %w", err)
			}

			recipients, err := readContacts(contactsPath)
			if err != nil {
				return err
			}

			log.Info("Creating ActiveCampaign client", "base_url", cfg.BaseURL, "timeout", timeout)
			sdk, err := activecampaign.NewSDK(cfg.APIKey,
				activecampaign.WithBaseURL(cfg.BaseURL),
				activecampaign.WithOutputFormat(cfg.OutputFormat),
				activecampaign.WithHTTPClient(&http.Client{Timeout: timeout}),
			)
			if err != nil {
				return fmt.Errorf("failed to create ActiveCampaign client: %w", err)
			}

			runner := &internalcampaign.Runner{API: sdk}
			if _, err := runner.Run(ctx, internalcampaign.Plan{
				Name:     name,
				SendDate: sendDate,
				Subject:  subject,
				HTML:     string(html),
				Sender:   sender,
				Contacts: recipients,
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Campaign %q scheduled for delivery on %s was created successfully!\n", name, sendDate)
			return nil
		},
	}

	// Sender flags.
	cmd.Flags().StringVarP(&sender.Name, "sender", "s", "", "Name of the sender of this campaign")
	cmd.Flags().StringVar(&sender.Email, "sender-email", "", "Email address for the sender of this campaign")
	cmd.Flags().StringVar(&sender.Address, "sender-address", "", "Physical address for the sender of this campaign")
	cmd.Flags().StringVar(&sender.City, "sender-city", "", "City for the sender of this campaign")
	cmd.Flags().StringVar(&sender.Zip, "sender-zip", "", "Zip code for the sender of this campaign")
	cmd.Flags().StringVar(&sender.Country, "sender-country", "", "Country code for the sender of this campaign")

	// Campaign flags.
	cmd.Flags().StringVar(&name, "campaign", "", "Name of this email campaign")
	cmd.Flags().StringVar(&sendDate, "campaign-date", "",
		"Date and time (format: YYYY-MM-DD hh:mm:ss) when emails in this campaign should be scheduled for sending")
	cmd.Flags().StringVar(&subject, "subject", "", "Email subject for the campaign")
	cmd.Flags().StringVar(&htmlPath, "html", "", "File containing HTML content used as the message body")
	cmd.Flags().StringVar(&contactsPath, "contacts", "",
		"CSV file containing (email, first_name, last_name) for contacts who will receive the campaign")

	// Client flags.
	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath,
		"YAML file with AC_BASE_URL, AC_API_KEY and OUTPUT_FORMAT. Environment variables of the same name override it.")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for each ActiveCampaign API call")

	for _, required := range []string{
		"sender", "sender-email", "sender-address", "sender-city", "sender-zip", "sender-country",
		"campaign", "campaign-date", "subject", "html", "contacts",
	} {
		_ = cmd.MarkFlagRequired(required)
	}

	// Logging flags (--zap-devel, --zap-log-level, ...).
	zapFlags := flag.NewFlagSet("zap", flag.ContinueOnError)
	opts.BindFlags(zapFlags)
	cmd.Flags().AddGoFlagSet(zapFlags)

	return cmd
}

func readContacts(path string) ([]contacts.Contact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open contacts file: %w", err)
	}
	defer func() { _ = f.Close() }()

	recipients, err := contacts.Read(f)
	if err != nil {
		return nil, fmt.Errorf("invalid contacts file %s: %w", path, err)
	}
	return recipients, nil
}
