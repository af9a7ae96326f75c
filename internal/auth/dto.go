package auth

import "errors"

type LoginDTO struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if dto.Login == "" {
		return errors.New("login is required")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (dto RefreshTokenDTO) Validate() error {
	if dto.RefreshToken == "" {
		return errors.New("refresh token is required")
	}
	return nil
}
