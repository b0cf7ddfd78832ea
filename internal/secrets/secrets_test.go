package secrets

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

var masterKey = strings.Repeat("m", 32)

func TestLocalSealerRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalSealer(masterKey)
	if err != nil {
		t.Fatal(err)
	}

	sealed, err := s.Seal(ctx, "tenant-a", "openai", "sk-live-1234")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(sealed.Ciphertext, "sk-live") {
		t.Fatal("ciphertext leaks the key")
	}

	got, err := s.Open(ctx, "tenant-a", sealed)
	if err != nil || got != "sk-live-1234" {
		t.Fatalf("Open = %q, %v", got, err)
	}

	if _, err := s.Open(ctx, "tenant-b", sealed); !errors.Is(err, ErrInvalidSecret) {
		t.Errorf("other tenant opened the secret: %v", err)
	}

	again, _ := s.Seal(ctx, "tenant-a", "openai", "sk-live-1234")
	if again.Ciphertext == sealed.Ciphertext {
		t.Error("nonce reused")
	}
}

func TestLocalSealerRejectsShortKey(t *testing.T) {
	if _, err := NewLocalSealer("short"); err == nil {
		t.Error("expected error")
	}
}

func TestHint(t *testing.T) {
	if got := Hint("sk-abcdef1234"); got != "****1234" {
		t.Errorf("Hint = %q", got)
	}
	if got := Hint("abc"); got != "****" {
		t.Errorf("Hint = %q", got)
	}
}

type fakeSecretsManager struct {
	mu      sync.Mutex
	secrets map[string]string
}

func (f *fakeSecretsManager) CreateSecret(_ context.Context, in *secretsmanager.CreateSecretInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	arn := "arn:aws:secretsmanager:eu-central-1:000000000000:secret:" + aws.ToString(in.Name)
	f.secrets[arn] = aws.ToString(in.SecretString)
	return &secretsmanager.CreateSecretOutput{ARN: aws.String(arn), Name: in.Name}, nil
}

func (f *fakeSecretsManager) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.secrets[aws.ToString(in.SecretId)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("missing")}
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(v)}, nil
}

func (f *fakeSecretsManager) DeleteSecret(_ context.Context, in *secretsmanager.DeleteSecretInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.secrets[aws.ToString(in.SecretId)]; !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("missing")}
	}
	delete(f.secrets, aws.ToString(in.SecretId))
	return &secretsmanager.DeleteSecretOutput{}, nil
}

func TestAWSSealer(t *testing.T) {
	ctx := context.Background()
	fake := &fakeSecretsManager{secrets: map[string]string{}}
	s := NewAWSSealer(fake, "site-catalog/llm")

	sealed, err := s.Seal(ctx, "t1", "openai", "sk-secret")
	if err != nil {
		t.Fatal(err)
	}
	if sealed.Ciphertext != "" || !strings.Contains(sealed.Ref, "site-catalog/llm/t1/openai/") {
		t.Errorf("sealed = %+v", sealed)
	}

	got, err := s.Open(ctx, "t1", sealed)
	if err != nil || got != "sk-secret" {
		t.Fatalf("Open = %q, %v", got, err)
	}

	if err := s.Destroy(ctx, "t1", sealed); err != nil {
		t.Fatal(err)
	}
	if err := s.Destroy(ctx, "t1", sealed); err != nil {
		t.Errorf("destroying a missing secret should succeed: %v", err)
	}
	if len(fake.secrets) != 0 {
		t.Errorf("secret not removed")
	}
}
