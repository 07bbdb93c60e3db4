package account

import (
	"context"
	"testing"
)

func TestRegisterLoginVerify(t *testing.T) {
	p := NewProvider(nil)
	ctx := context.Background()

	result, err := p.Execute(ctx, "account.register", map[string]interface{}{
		"username": "alice",
		"password": "secret123",
		"email":    "alice@example.com",
	}, nil)
	if err != nil || !result.Success {
		t.Fatalf("register failed: %v %v", err, result.Error)
	}
	if result.Data["user_id"].(string) == "" {
		t.Error("expected user_id in response")
	}

	result, err = p.Execute(ctx, "account.login", map[string]interface{}{
		"username": "alice",
		"password": "secret123",
	}, nil)
	if err != nil || !result.Success {
		t.Fatalf("login failed: %v", err)
	}
	token := result.Data["token"].(string)
	if token == "" {
		t.Fatal("expected token in login response")
	}

	result, _ = p.Execute(ctx, "account.verify", map[string]interface{}{"token": token}, nil)
	if !result.Success || !result.Data["valid"].(bool) {
		t.Error("expected token to be valid")
	}

	result, _ = p.Execute(ctx, "account.current", map[string]interface{}{"token": token}, nil)
	if !result.Success || result.Data["username"].(string) != "alice" {
		t.Error("expected current user to be alice")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	p := NewProvider(nil)
	ctx := context.Background()

	p.Execute(ctx, "account.register", map[string]interface{}{
		"username": "bob",
		"password": "secret123",
	}, nil)

	result, _ := p.Execute(ctx, "account.login", map[string]interface{}{
		"username": "bob",
		"password": "wrongpass",
	}, nil)
	if result.Success {
		t.Error("expected login with wrong password to fail")
	}

	result, _ = p.Execute(ctx, "account.login", map[string]interface{}{
		"username": "nobody",
		"password": "secret123",
	}, nil)
	if result.Success {
		t.Error("expected login for unknown user to fail")
	}
}

func TestDuplicateUsername(t *testing.T) {
	p := NewProvider(nil)
	ctx := context.Background()

	params := map[string]interface{}{
		"username": "carol",
		"password": "secret123",
	}
	result, _ := p.Execute(ctx, "account.register", params, nil)
	if !result.Success {
		t.Fatal("first register should succeed")
	}
	result, _ = p.Execute(ctx, "account.register", params, nil)
	if result.Success {
		t.Error("duplicate register should fail")
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	p := NewProvider(nil)
	ctx := context.Background()

	p.Execute(ctx, "account.register", map[string]interface{}{
		"username": "dave",
		"password": "secret123",
	}, nil)
	result, _ := p.Execute(ctx, "account.login", map[string]interface{}{
		"username": "dave",
		"password": "secret123",
	}, nil)
	token := result.Data["token"].(string)

	result, _ = p.Execute(ctx, "account.logout", map[string]interface{}{"token": token}, nil)
	if !result.Success {
		t.Fatal("logout failed")
	}

	result, _ = p.Execute(ctx, "account.verify", map[string]interface{}{"token": token}, nil)
	if result.Data["valid"].(bool) {
		t.Error("expected token to be invalid after logout")
	}
}
