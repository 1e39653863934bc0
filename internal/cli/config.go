package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/pagewright/pagewright/internal/core/runtime"
)

// Config is everything the commands read from the environment.
type Config struct {
	Runtime runtime.Options

	GitHubToken string
	RepoURL     string
	Branch      string
	AuthorName  string
	AuthorEmail string
}

// loadEnv reads a .env file when present. A missing file is fine; any other
// failure is surfaced to help with debugging.
func loadEnv() error {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return fmt.Errorf("load .env: %w", err)
		}
	}
	return nil
}

// configFromEnv assembles configuration from environment variables. The
// provider is picked from whichever credentials are present; PAGEWRIGHT_PROVIDER
// forces the choice when several are set.
func configFromEnv() Config {
	options := runtime.Options{
		Model:           os.Getenv("PAGEWRIGHT_MODEL"),
		SessionID:       os.Getenv("PAGEWRIGHT_SESSION"),
		AzureEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureDeployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT"),
		AzureAPIVersion: os.Getenv("AZURE_OPENAI_API_VERSION"),
	}

	switch runtime.Provider(os.Getenv("PAGEWRIGHT_PROVIDER")) {
	case runtime.ProviderAnthropic:
		options.Provider = runtime.ProviderAnthropic
		options.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case runtime.ProviderAzureOpenAI:
		options.Provider = runtime.ProviderAzureOpenAI
		options.APIKey = os.Getenv("AZURE_OPENAI_API_KEY")
	case runtime.ProviderOpenAI:
		options.Provider = runtime.ProviderOpenAI
		options.APIKey = os.Getenv("OPENAI_API_KEY")
	default:
		switch {
		case os.Getenv("OPENAI_API_KEY") != "":
			options.Provider = runtime.ProviderOpenAI
			options.APIKey = os.Getenv("OPENAI_API_KEY")
		case os.Getenv("ANTHROPIC_API_KEY") != "":
			options.Provider = runtime.ProviderAnthropic
			options.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case os.Getenv("AZURE_OPENAI_API_KEY") != "":
			options.Provider = runtime.ProviderAzureOpenAI
			options.APIKey = os.Getenv("AZURE_OPENAI_API_KEY")
		}
	}

	branch := os.Getenv("PAGEWRIGHT_BRANCH")
	if branch == "" {
		branch = "main"
	}
	authorName := os.Getenv("PAGEWRIGHT_AUTHOR_NAME")
	if authorName == "" {
		authorName = "Pagewright"
	}
	authorEmail := os.Getenv("PAGEWRIGHT_AUTHOR_EMAIL")
	if authorEmail == "" {
		authorEmail = "pagewright@users.noreply.github.com"
	}

	return Config{
		Runtime:     options,
		GitHubToken: os.Getenv("GITHUB_TOKEN"),
		RepoURL:     os.Getenv("PAGEWRIGHT_REPO"),
		Branch:      branch,
		AuthorName:  authorName,
		AuthorEmail: authorEmail,
	}
}

func (c Config) requireGit() error {
	if c.GitHubToken == "" {
		return errors.New("GITHUB_TOKEN must be set")
	}
	if c.RepoURL == "" {
		return errors.New("PAGEWRIGHT_REPO must be set to a github.com repository URL")
	}
	return nil
}
