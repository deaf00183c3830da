package dtos

import "github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"

type LikeResponse struct {
	Message string `json:"message"`
	Liked   bool   `json:"liked"`
}

type LikeCountsResponse struct {
	Counts []models.LikeCount `json:"counts"`
}

type LikedPropertiesResponse struct {
	Count      int                `json:"count"`
	Properties []*models.Property `json:"properties"`
}
