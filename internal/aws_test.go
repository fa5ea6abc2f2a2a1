package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
	"github.com/aws/smithy-go"
)

const testConfig = `[profile base]
region = eu-west-1

[profile plain]
region = eu-west-1

[profile marketplace]
role_arn = arn:aws:iam::123456789012:role/EventPublisher
source_profile = base
mfa_serial = arn:aws:iam::123456789012:mfa/operator
`

const testCredentials = `[base]
aws_access_key_id = AKIABASE
aws_secret_access_key = basesecret

[plain]
aws_access_key_id = AKIAPLAIN
aws_secret_access_key = plainsecret
`

type fakeSTS struct {
	calls  int
	input  *sts.AssumeRoleInput
	err    error
	expiry time.Time
}

func (f *fakeSTS) AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error) {
	f.calls++
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sts.AssumeRoleOutput{
		Credentials: &ststypes.Credentials{
			AccessKeyId:     aws.String("ASIAASSUMED"),
			SecretAccessKey: aws.String("assumedsecret"),
			SessionToken:    aws.String("assumedtoken"),
			Expiration:      aws.Time(f.expiry),
		},
	}, nil
}

type fakeIdentity struct {
	calls int
	cfg   aws.Config
}

func (f *fakeIdentity) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	f.calls++
	return &sts.GetCallerIdentityOutput{
		Arn:     aws.String("arn:aws:sts::123456789012:assumed-role/EventPublisher/eventpush"),
		Account: aws.String("123456789012"),
	}, nil
}

func setupResolver(t *testing.T) (*CredentialResolver, *fakeSTS, *fakeIdentity) {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config")
	credsPath := filepath.Join(dir, "credentials")
	if err := os.WriteFile(configPath, []byte(testConfig), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if err := os.WriteFile(credsPath, []byte(testCredentials), 0600); err != nil {
		t.Fatalf("Failed to write credentials: %v", err)
	}

	stsClient := &fakeSTS{expiry: time.Now().Add(time.Hour).UTC().Truncate(time.Second)}
	identity := &fakeIdentity{}
	r := &CredentialResolver{
		Region:           Region,
		ConfigFiles:      []string{configPath},
		CredentialsFiles: []string{credsPath},
		AssumeRoleClient: stsClient,
		Identity: func(cfg aws.Config) CallerIdentityAPI {
			identity.cfg = cfg
			return identity
		},
	}
	return r, stsClient, identity
}

func TestResolveUnknownProfile(t *testing.T) {
	r, stsClient, identity := setupResolver(t)
	prompted := false

	_, err := r.Resolve(context.Background(), "ghost-profile", func() (string, error) {
		prompted = true
		return "123456", nil
	})

	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	var notFound *ProfileNotFoundError
	if !errors.As(err, &notFound) || notFound.Profile != "ghost-profile" {
		t.Errorf("expected ProfileNotFoundError naming ghost-profile, got %v", err)
	}
	if prompted || stsClient.calls != 0 || identity.calls != 0 {
		t.Error("unknown profile must not prompt or call STS")
	}
}

func TestResolveEmptyProfileName(t *testing.T) {
	r, _, _ := setupResolver(t)

	_, err := r.Resolve(context.Background(), "", nil)
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestResolveProfileWithoutRole(t *testing.T) {
	r, stsClient, _ := setupResolver(t)

	_, err := r.Resolve(context.Background(), "plain", nil)
	if !errors.Is(err, ErrProfileNotAssumable) {
		t.Fatalf("expected ErrProfileNotAssumable, got %v", err)
	}
	if stsClient.calls != 0 {
		t.Error("profile without a role must not call STS")
	}
}

func TestResolveAssumesRoleWithMFA(t *testing.T) {
	r, stsClient, identity := setupResolver(t)
	prompts := 0

	session, err := r.Resolve(context.Background(), "marketplace", func() (string, error) {
		prompts++
		return "654321", nil
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if prompts != 1 {
		t.Errorf("expected exactly one MFA prompt, got %d", prompts)
	}
	if stsClient.calls != 1 {
		t.Fatalf("expected one AssumeRole call, got %d", stsClient.calls)
	}
	if got := aws.ToString(stsClient.input.TokenCode); got != "654321" {
		t.Errorf("TokenCode = %q, want 654321", got)
	}
	if got := aws.ToString(stsClient.input.SerialNumber); got != "arn:aws:iam::123456789012:mfa/operator" {
		t.Errorf("SerialNumber = %q", got)
	}
	if got := aws.ToString(stsClient.input.RoleArn); got != "arn:aws:iam::123456789012:role/EventPublisher" {
		t.Errorf("RoleArn = %q", got)
	}

	if session.AccessKey != "ASIAASSUMED" || session.SecretKey != "assumedsecret" || session.SessionToken != "assumedtoken" {
		t.Errorf("unexpected credentials: %+v", session)
	}
	// The credentials cache may report expiry slightly early.
	if session.Expiration.After(stsClient.expiry) || session.Expiration.Before(stsClient.expiry.Add(-15*time.Minute)) {
		t.Errorf("Expiration = %v, want about %v", session.Expiration, stsClient.expiry)
	}
	if session.SourceProfile != "base" || session.Region != Region {
		t.Errorf("got source %q region %q", session.SourceProfile, session.Region)
	}
	if session.Account != "123456789012" || session.CallerArn == "" {
		t.Errorf("caller identity not recorded: %+v", session)
	}

	// The identity lookup must sign with the assumed keys, not the source profile.
	creds, err := identity.cfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if creds.AccessKeyID != "ASIAASSUMED" {
		t.Errorf("identity lookup used %q", creds.AccessKeyID)
	}
}

func TestResolveRejectedMFA(t *testing.T) {
	r, stsClient, identity := setupResolver(t)
	stsClient.err = &smithy.GenericAPIError{Code: "AccessDenied", Message: "MultiFactorAuthentication failed with invalid MFA one time pass code."}

	_, err := r.Resolve(context.Background(), "marketplace", func() (string, error) {
		return "000000", nil
	})
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
	if identity.calls != 0 {
		t.Error("identity lookup must not run after a rejected role assumption")
	}
}

func TestResolveMFAPromptError(t *testing.T) {
	r, _, _ := setupResolver(t)
	promptErr := errors.New("stdin closed")

	_, err := r.Resolve(context.Background(), "marketplace", func() (string, error) {
		return "", promptErr
	})
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestOnceToken(t *testing.T) {
	calls := 0
	token := onceToken(func() (string, error) {
		calls++
		return "111111", nil
	})

	for i := 0; i < 3; i++ {
		code, err := token()
		if err != nil || code != "111111" {
			t.Fatalf("token() = %q, %v", code, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected one prompt, got %d", calls)
	}

	if _, err := onceToken(nil)(); err == nil {
		t.Error("expected an error when no prompt is available")
	}
}
