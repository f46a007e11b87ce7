package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Pranavsangichetty/portfolio/internal/blobs"
	"github.com/Pranavsangichetty/portfolio/internal/content"
	"github.com/Pranavsangichetty/portfolio/internal/session"
)

const (
	contactSentMessage   = "Message sent. Your message has been recorded."
	contactFailedMessage = "Sorry, there was an error sending your message. Please try again later."
	contactMissingFields = "Please fill in your name, email and message."
)

type projectTab struct {
	Key      content.Category
	Label    string
	Projects []projectCard
}

// projectCard marks projects whose link points at an upload held by the session.
type projectCard struct {
	content.Project
	Uploaded bool
}

func projectCards(projects []content.Project) []projectCard {
	cards := make([]projectCard, 0, len(projects))
	for _, p := range projects {
		cards = append(cards, projectCard{Project: p, Uploaded: strings.HasPrefix(p.Link, blobs.PathPrefix)})
	}
	return cards
}

type pageData struct {
	Profile      content.Profile
	Resumes      []content.Resume
	Tabs         []projectTab
	Certificates []content.Certificate
	Contact      contactView
	Year         int
}

// contactView is the data of the contact form partial.
type contactView struct {
	Draft   content.ContactDraft
	Success string
	Error   string
}

func (s *Server) index(c *gin.Context) {
	var data pageData
	_ = withStore(c, func(st *content.Store) error {
		data = pageData{
			Profile:      st.Profile,
			Resumes:      st.Resumes.List(),
			Certificates: st.Certificates.List(),
			Contact:      contactView{Draft: st.Contact.Draft()},
			Year:         time.Now().Year(),
		}
		for _, key := range st.Projects.Keys() {
			data.Tabs = append(data.Tabs, projectTab{
				Key:      key,
				Label:    key.Label(),
				Projects: projectCards(st.Projects.ListCategory(key)),
			})
		}
		return nil
	})
	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) newResumeForm(c *gin.Context) {
	c.HTML(http.StatusOK, "resume-form.html", content.Resume{})
}

func (s *Server) editResumeForm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid resume id")
		return
	}

	var (
		resume content.Resume
		found  bool
	)
	_ = withStore(c, func(st *content.Store) error {
		resume, found = st.Resumes.Get(id)
		return nil
	})
	if !found {
		c.String(http.StatusNotFound, "resume not found")
		return
	}
	c.HTML(http.StatusOK, "resume-form.html", resume)
}

func (s *Server) saveResume(c *gin.Context) {
	var resume content.Resume
	if err := c.ShouldBind(&resume); err != nil {
		c.String(http.StatusBadRequest, "title, type and url are required")
		return
	}

	_ = withStore(c, func(st *content.Store) error {
		if resume.ID == 0 {
			resume.ID = st.IDs.Next()
		}
		st.Resumes.Upsert(resume)
		return nil
	})
	c.Redirect(http.StatusSeeOther, "/#resumes")
}

func (s *Server) deleteResume(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid resume id")
		return
	}

	_ = withStore(c, func(st *content.Store) error {
		st.Resumes.Remove(id)
		return nil
	})
	c.Redirect(http.StatusSeeOther, "/#resumes")
}

func (s *Server) uploadProjects(c *gin.Context) {
	category := content.Category(c.Param("category"))
	files, err := s.readUploads(c)
	if err != nil {
		s.uploadFailed(c, err)
		return
	}

	err = storeUploads(c, files, func(st *content.Store) error {
		_, err := st.Projects.BulkAppend(category, files)
		return err
	})
	if err != nil {
		s.uploadFailed(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/#projects-"+string(category))
}

func (s *Server) uploadCertificates(c *gin.Context) {
	files, err := s.readUploads(c)
	if err != nil {
		s.uploadFailed(c, err)
		return
	}

	err = storeUploads(c, files, func(st *content.Store) error {
		_, err := st.Certificates.BulkAppend(files)
		return err
	})
	if err != nil {
		s.uploadFailed(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/#certificates")
}

func (s *Server) setContactField(c *gin.Context) {
	field := c.PostForm("field")
	value := c.PostForm(field)
	if v, ok := c.GetPostForm("value"); ok {
		value = v
	}

	err := withStore(c, func(st *content.Store) error {
		_, err := st.Contact.SetField(field, value)
		return err
	})
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) contactForm(c *gin.Context) {
	var view contactView
	_ = withStore(c, func(st *content.Store) error {
		view.Draft = st.Contact.Draft()
		return nil
	})
	c.HTML(http.StatusOK, "contact-form.html", view)
}

// submitContact re-renders the contact form with the resulting draft, so a
// successful send clears the inputs. Errors are rendered with 200 so HTMX swaps them in.
func (s *Server) submitContact(c *gin.Context) {
	var draft content.ContactDraft
	if err := c.ShouldBind(&draft); err != nil {
		c.HTML(http.StatusOK, "contact-form.html", contactView{Draft: draft, Error: contactMissingFields})
		return
	}

	view := contactView{Success: contactSentMessage}
	err := withStore(c, func(st *content.Store) error {
		err := fillAndSubmit(c, st, draft)
		view.Draft = st.Contact.Draft()
		return err
	})
	if err != nil {
		s.logger.Error("contact submit failed", "error", err)
		view.Success, view.Error = "", contactFailedMessage
	}
	c.HTML(http.StatusOK, "contact-form.html", view)
}

func (s *Server) serveBlob(c *gin.Context) {
	sess := session.FromContext(c)
	blob, err := sess.Blobs.Get(c.Param("handle"))
	if err != nil {
		c.String(http.StatusNotFound, "file not found")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", blob.Name))
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}

func (s *Server) uploadFailed(c *gin.Context, err error) {
	status := uploadStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("upload failed", "error", err)
	}
	c.String(status, err.Error())
}

func fillAndSubmit(c *gin.Context, st *content.Store, draft content.ContactDraft) error {
	fields := []struct{ name, value string }{
		{content.FieldName, draft.Name},
		{content.FieldEmail, draft.Email},
		{content.FieldMessage, draft.Message},
	}
	for _, f := range fields {
		if _, err := st.Contact.SetField(f.name, f.value); err != nil {
			return err
		}
	}
	return st.Contact.Submit(c.Request.Context())
}

func withStore(c *gin.Context, fn func(*content.Store) error) error {
	sess := session.FromContext(c)
	if sess == nil {
		return errors.New("no session on request")
	}
	return sess.Do(fn)
}
