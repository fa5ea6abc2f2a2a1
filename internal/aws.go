package internal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

// TokenFunc answers an MFA challenge with the code the operator typed.
type TokenFunc func() (string, error)

// CallerIdentityAPI is the part of the STS client used to describe a session.
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// CredentialResolver turns a named shared-config profile into an assumed-role session.
type CredentialResolver struct {
	Region string

	// Shared config/credentials files. Empty means the SDK defaults.
	ConfigFiles      []string
	CredentialsFiles []string

	// AssumeRoleClient overrides the STS client used by the assume-role provider.
	AssumeRoleClient stscreds.AssumeRoleAPIClient
	// Identity builds the client used to look up the caller. Defaults to sts.NewFromConfig.
	Identity func(aws.Config) CallerIdentityAPI
}

// Resolve loads profile, assumes its role (prompting through mfa when the
// profile has an mfa_serial) and returns the resulting session.
func (r *CredentialResolver) Resolve(ctx context.Context, profile string, mfa TokenFunc) (*AWSSession, error) {
	if profile == "" {
		return nil, &ProfileNotFoundError{Profile: profile}
	}

	shared, err := config.LoadSharedConfigProfile(ctx, profile, func(o *config.LoadSharedConfigOptions) {
		if len(r.ConfigFiles) > 0 {
			o.ConfigFiles = r.ConfigFiles
		}
		if len(r.CredentialsFiles) > 0 {
			o.CredentialsFiles = r.CredentialsFiles
		}
	})
	if err != nil {
		var notExist config.SharedConfigProfileNotExistError
		if errors.As(err, &notExist) {
			return nil, &ProfileNotFoundError{Profile: profile}
		}
		return nil, fmt.Errorf("failed to load profile '%s': %w", profile, err)
	}

	if shared.RoleARN == "" {
		return nil, fmt.Errorf("%w: profile '%s' has no role_arn", ErrProfileNotAssumable, profile)
	}

	region := r.Region
	if region == "" {
		region = Region
	}

	token := onceToken(mfa)
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithSharedConfigProfile(profile),
		config.WithAssumeRoleCredentialOptions(func(o *stscreds.AssumeRoleOptions) {
			o.TokenProvider = token
			if r.AssumeRoleClient != nil {
				o.Client = r.AssumeRoleClient
			}
		}),
	}
	if len(r.ConfigFiles) > 0 {
		opts = append(opts, config.WithSharedConfigFiles(r.ConfigFiles))
	}
	if len(r.CredentialsFiles) > 0 {
		opts = append(opts, config.WithSharedCredentialsFiles(r.CredentialsFiles))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config for profile '%s': %w", profile, err)
	}

	// Retrieve now so the MFA prompt happens before anything touches the bus.
	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, authError(err)
	}

	session := &AWSSession{
		AccessKey:     creds.AccessKeyID,
		SecretKey:     creds.SecretAccessKey,
		SessionToken:  creds.SessionToken,
		Expiration:    creds.Expires,
		Profile:       profile,
		RoleArn:       shared.RoleARN,
		SourceProfile: shared.SourceProfileName,
		MfaArn:        shared.MFASerial,
		Region:        region,
	}

	identity := r.Identity
	if identity == nil {
		identity = func(c aws.Config) CallerIdentityAPI { return sts.NewFromConfig(c) }
	}
	out, err := identity(session.Config()).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, authError(err)
	}
	session.CallerArn = aws.ToString(out.Arn)
	session.Account = aws.ToString(out.Account)

	return session, nil
}

// Config returns an aws.Config that signs with the session's static keys.
func (s *AWSSession) Config() aws.Config {
	return aws.Config{
		Region: s.Region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			s.AccessKey,
			s.SecretKey,
			s.SessionToken,
		)),
	}
}

// onceToken makes sure the operator is asked for a code at most once.
func onceToken(fn TokenFunc) func() (string, error) {
	if fn == nil {
		return func() (string, error) {
			return "", errors.New("profile requires an MFA code but no prompt is available")
		}
	}
	return sync.OnceValues((func() (string, error))(fn))
}

func authError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s: %s", ErrAuthenticationFailed, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
}
