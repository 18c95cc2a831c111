package service

import (
	"context"
	"testing"

	"github.com/madecodebrazil/masioticas-sub005/internal/config"
	"github.com/madecodebrazil/masioticas-sub005/internal/dto"
	"github.com/madecodebrazil/masioticas-sub005/internal/model"
	"github.com/madecodebrazil/masioticas-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memUsuarioRepo struct{ usuarios map[uuid.UUID]*model.Usuario }

func newMemUsuarioRepo() *memUsuarioRepo {
	return &memUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *memUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *memUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Ativo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *memUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *memUsuarioRepo) Desativar(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Ativo = false
	return nil
}

var _ repository.UsuarioRepository = (*memUsuarioRepo)(nil)

func newAuthFixture(t *testing.T) (AuthService, *memUsuarioRepo) {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:          "segredo-de-teste",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
	repo := newMemUsuarioRepo()
	return NewAuthService(repo, cfg), repo
}

func TestCriarUsuarioELogin(t *testing.T) {
	svc, _ := newAuthFixture(t)

	created, err := svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "maria@masioticas.com.br",
		Nome:     "Maria Operadora",
		Password: "senha-forte-123",
		Rol:      "operador",
	})
	require.NoError(t, err)
	assert.True(t, created.Ativo)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "maria@masioticas.com.br",
		Password: "senha-forte-123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "operador", resp.User.Rol)
}

func TestLoginSenhaErrada(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "joao@masioticas.com.br",
		Nome:     "João",
		Password: "senha-certa",
		Rol:      "supervisor",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "joao@masioticas.com.br",
		Password: "senha-errada",
	})
	assert.ErrorContains(t, err, "credenciais inválidas")
}

func TestLoginUsuarioInexistente(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "ninguem@masioticas.com.br",
		Password: "qualquer",
	})
	assert.ErrorContains(t, err, "credenciais inválidas")
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "ana@masioticas.com.br",
		Nome:     "Ana",
		Password: "senha-refresh",
		Rol:      "administrador",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "ana@masioticas.com.br",
		Password: "senha-refresh",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefreshTokenInvalido(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.Refresh(context.Background(), "nao-e-um-jwt")
	assert.ErrorContains(t, err, "refresh token inválido")
}

func TestRefreshUsuarioDesativado(t *testing.T) {
	svc, _ := newAuthFixture(t)

	created, err := svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "ex@masioticas.com.br",
		Nome:     "Ex Funcionário",
		Password: "senha-antiga",
		Rol:      "operador",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "ex@masioticas.com.br",
		Password: "senha-antiga",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DesativarUsuario(context.Background(), uuid.MustParse(created.ID)))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorContains(t, err, "inativo")
}

func TestLoginUsuarioDesativado(t *testing.T) {
	svc, _ := newAuthFixture(t)

	created, err := svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "desligado@masioticas.com.br",
		Nome:     "Desligado",
		Password: "senha-desligado",
		Rol:      "operador",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DesativarUsuario(context.Background(), uuid.MustParse(created.ID)))

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "desligado@masioticas.com.br",
		Password: "senha-desligado",
	})
	assert.ErrorContains(t, err, "credenciais inválidas")
}

func TestCriarUsuarioComLoja(t *testing.T) {
	svc, _ := newAuthFixture(t)
	lojaID := uuid.New().String()

	created, err := svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "loja@masioticas.com.br",
		Nome:     "Operador da Loja",
		Password: "senha-loja",
		Rol:      "operador",
		LojaID:   &lojaID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.LojaID)
	assert.Equal(t, lojaID, *created.LojaID)
}
