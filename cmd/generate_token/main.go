package main

import (
	"fmt"
	"log"
	"os"

	"rideshare-backend/internal/config"
	"rideshare-backend/internal/utils"

	"github.com/spf13/pflag"
)

func main() {
	userID := pflag.Uint("user-id", 0, "ID пользователя (для роли user)")
	role := pflag.String("role", utils.RoleUser, "роль: user или admin")
	pflag.Parse()

	cfg, _ := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET не задан")
	}

	var (
		token string
		err   error
	)
	switch *role {
	case utils.RoleAdmin:
		token, err = utils.GenerateAdminJWT(cfg.JWTSecret)
	case utils.RoleUser:
		if *userID == 0 {
			fmt.Fprintln(os.Stderr, "для роли user нужен --user-id")
			pflag.Usage()
			os.Exit(2)
		}
		token, err = utils.GenerateJWT(cfg.JWTSecret, *userID)
	default:
		log.Fatalf("неизвестная роль: %s", *role)
	}
	if err != nil {
		log.Fatalf("Ошибка генерации токена: %v", err)
	}

	fmt.Println(token)
}
