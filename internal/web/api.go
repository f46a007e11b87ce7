package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Pranavsangichetty/portfolio/internal/content"
)

type categoryResponse struct {
	Key   content.Category `json:"key"`
	Label string           `json:"label"`
}

type contactFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (s *Server) apiListResumes(c *gin.Context) {
	var out []content.Resume
	_ = withStore(c, func(st *content.Store) error {
		out = st.Resumes.List()
		return nil
	})
	c.JSON(http.StatusOK, out)
}

func (s *Server) apiUpsertResume(c *gin.Context) {
	var resume content.Resume
	if err := c.ShouldBindJSON(&resume); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var out []content.Resume
	_ = withStore(c, func(st *content.Store) error {
		if resume.ID == 0 {
			resume.ID = st.IDs.Next()
		}
		out = st.Resumes.Upsert(resume)
		return nil
	})
	c.JSON(http.StatusOK, out)
}

func (s *Server) apiDeleteResume(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resume id"})
		return
	}

	var out []content.Resume
	_ = withStore(c, func(st *content.Store) error {
		out = st.Resumes.Remove(id)
		return nil
	})
	c.JSON(http.StatusOK, out)
}

func (s *Server) apiCategories(c *gin.Context) {
	var out []categoryResponse
	_ = withStore(c, func(st *content.Store) error {
		for _, key := range st.Projects.Keys() {
			out = append(out, categoryResponse{Key: key, Label: key.Label()})
		}
		return nil
	})
	c.JSON(http.StatusOK, out)
}

func (s *Server) apiListProjects(c *gin.Context) {
	category := content.Category(c.Param("category"))

	var out []content.Project
	_ = withStore(c, func(st *content.Store) error {
		out = st.Projects.ListCategory(category)
		return nil
	})
	c.JSON(http.StatusOK, out)
}

func (s *Server) apiUploadProjects(c *gin.Context) {
	category := content.Category(c.Param("category"))
	files, err := s.readUploads(c)
	if err != nil {
		s.apiUploadFailed(c, err)
		return
	}

	var out []content.Project
	err = storeUploads(c, files, func(st *content.Store) error {
		var err error
		out, err = st.Projects.BulkAppend(category, files)
		return err
	})
	if err != nil {
		s.apiUploadFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) apiListCertificates(c *gin.Context) {
	var out []content.Certificate
	_ = withStore(c, func(st *content.Store) error {
		out = st.Certificates.List()
		return nil
	})
	c.JSON(http.StatusOK, out)
}

func (s *Server) apiUploadCertificates(c *gin.Context) {
	files, err := s.readUploads(c)
	if err != nil {
		s.apiUploadFailed(c, err)
		return
	}

	var out []content.Certificate
	err = storeUploads(c, files, func(st *content.Store) error {
		var err error
		out, err = st.Certificates.BulkAppend(files)
		return err
	})
	if err != nil {
		s.apiUploadFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) apiContactDraft(c *gin.Context) {
	var out content.ContactDraft
	_ = withStore(c, func(st *content.Store) error {
		out = st.Contact.Draft()
		return nil
	})
	c.JSON(http.StatusOK, out)
}

func (s *Server) apiSetContactField(c *gin.Context) {
	var req contactFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var out content.ContactDraft
	err := withStore(c, func(st *content.Store) error {
		var err error
		out, err = st.Contact.SetField(req.Field, req.Value)
		return err
	})
	if errors.Is(err, content.ErrUnknownField) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) apiSubmitContact(c *gin.Context) {
	err := withStore(c, func(st *content.Store) error {
		return st.Contact.Submit(c.Request.Context())
	})
	if err != nil {
		s.logger.Error("contact submit failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

func (s *Server) apiUploadFailed(c *gin.Context, err error) {
	status := uploadStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("upload failed", "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
