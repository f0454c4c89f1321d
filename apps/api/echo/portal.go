package echoapi

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/services/metrics"
)

type portalApi struct {
	svc     *school.Service
	res     *school.Resolver
	kv      core.KVStore
	metrics *metrics.Metrics
}

func registerPortalAPI(g *echo.Group, opts *Options) {
	api := portalApi{
		svc:     opts.SchoolSvc,
		res:     opts.Resolver,
		kv:      opts.KV,
		metrics: opts.Metrics,
	}

	pg := g.Group("", authMiddleware(opts.Session))
	adminOnly := rolesMiddleware(school.RoleAdmin)

	pg.POST("/users", api.createUser, adminOnly)
	pg.GET("/users/candidates", api.messagingCandidates)

	pg.POST("/classes", api.openClass, adminOnly)
	pg.GET("/classes", api.classes)

	pg.GET("/messages", api.inbox)
	pg.GET("/messages/thread/:peerID", api.thread)
	pg.POST("/messages", api.sendMessage)
	pg.PUT("/messages/:id/read", api.markMessageRead)

	pg.GET("/announcements", api.announcements)
	pg.POST("/announcements", api.publishAnnouncement, rolesMiddleware(school.RoleAdmin, school.RoleFaculty))

	pg.GET("/meetings", api.meetings)
	pg.POST("/meetings", api.scheduleMeeting)
	pg.PUT("/meetings/:id/status", api.updateMeetingStatus)

	pg.GET("/dashboard", api.dashboard)

	pg.GET("/theme", api.theme)
	pg.PUT("/theme", api.setTheme)
}

func (api *portalApi) createUser(ctx echo.Context) error {
	var nu school.NewUser
	if err := ctx.Bind(&nu); err != nil {
		return err
	}
	usr, err := api.svc.CreateUser(nu)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *portalApi) messagingCandidates(ctx echo.Context) error {
	candidates, err := api.res.MessagingCandidates(contextUser(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, candidates)
}

func (api *portalApi) openClass(ctx echo.Context) error {
	var nc school.NewClass
	if err := ctx.Bind(&nc); err != nil {
		return err
	}
	cls, err := api.svc.OpenClass(nc)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *portalApi) classes(ctx echo.Context) error {
	classes, err := api.svc.Store().ClassesByInstitution(contextUser(ctx).InstitutionCode)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *portalApi) inbox(ctx echo.Context) error {
	msgs, err := api.svc.Store().MessagesForUser(contextUser(ctx).ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *portalApi) thread(ctx echo.Context) error {
	usr := contextUser(ctx)
	peer, err := api.svc.UserByID(ctx.Param("peerID"))
	if err != nil {
		return err
	}
	thread, err := api.res.ConversationThread(usr, peer)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, thread)
}

type sendMessageRequest struct {
	RecipientIDs []string `json:"recipient_ids"`
	Content      string   `json:"content"`
}

func (api *portalApi) sendMessage(ctx echo.Context) error {
	usr := contextUser(ctx)

	var req sendMessageRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	// recipients must all be in the sender's whitelist
	candidates, err := api.res.MessagingCandidates(usr)
	if err != nil {
		return err
	}
	allowed := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		allowed[c.ID] = struct{}{}
	}
	for _, id := range req.RecipientIDs {
		if _, ok := allowed[id]; !ok {
			return errHTTPForbidden
		}
	}

	msg, err := api.svc.SendMessage(school.NewMessage{
		SenderID:     usr.ID,
		RecipientIDs: req.RecipientIDs,
		Content:      req.Content,
	})
	if err != nil {
		return err
	}
	api.metrics.MessagesSent.Inc()
	return ctx.JSON(http.StatusCreated, msg)
}

func (api *portalApi) markMessageRead(ctx echo.Context) error {
	usr := contextUser(ctx)
	id := ctx.Param("id")

	// only an addressee may mark a message read
	msgs, err := api.svc.Store().MessagesForUser(usr.ID)
	if err != nil {
		return err
	}
	var found bool
	for _, msg := range msgs {
		if msg.ID == id && msg.HasRecipient(usr.ID) {
			found = true
			break
		}
	}
	if !found {
		return school.ErrNotFound
	}

	msg, err := api.svc.Store().MarkMessageRead(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, msg)
}

func (api *portalApi) announcements(ctx echo.Context) error {
	anns, err := api.res.VisibleAnnouncements(contextUser(ctx))
	if err != nil {
		return err
	}
	// newest first for display
	sort.SliceStable(anns, func(i, j int) bool { return anns[i].Timestamp.After(anns[j].Timestamp) })
	return ctx.JSON(http.StatusOK, anns)
}

type announcementRequest struct {
	Title        string              `json:"title"`
	Content      string              `json:"content"`
	TargetGroups school.TargetGroups `json:"target_groups"`
	Important    bool                `json:"important"`
}

func (api *portalApi) publishAnnouncement(ctx echo.Context) error {
	var req announcementRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	ann, err := api.svc.PublishAnnouncement(school.NewAnnouncement{
		Title:        req.Title,
		Content:      req.Content,
		CreatorID:    contextUser(ctx).ID,
		TargetGroups: req.TargetGroups,
		Important:    req.Important,
	})
	if err != nil {
		return err
	}
	api.metrics.AnnouncementsPublished.Inc()
	return ctx.JSON(http.StatusCreated, ann)
}

func (api *portalApi) meetings(ctx echo.Context) error {
	meetings, err := api.svc.Store().MeetingsForUser(contextUser(ctx).ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, meetings)
}

type meetingRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ParticipantIDs []string  `json:"participant_ids"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Location       string    `json:"location"`
	IsOnline       bool      `json:"is_online"`
	Link           string    `json:"link"`
}

func (api *portalApi) scheduleMeeting(ctx echo.Context) error {
	var req meetingRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	m, err := api.svc.ScheduleMeeting(school.NewMeeting{
		Title:          req.Title,
		Description:    req.Description,
		CreatorID:      contextUser(ctx).ID,
		ParticipantIDs: req.ParticipantIDs,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Location:       req.Location,
		IsOnline:       req.IsOnline,
		Link:           req.Link,
	})
	if err != nil {
		return err
	}
	api.metrics.MeetingsScheduled.Inc()
	return ctx.JSON(http.StatusCreated, m)
}

type meetingStatusRequest struct {
	Status school.MeetingStatus `json:"status" validate:"required,oneof=scheduled cancelled completed"`
}

func (api *portalApi) updateMeetingStatus(ctx echo.Context) error {
	usr := contextUser(ctx)
	id := ctx.Param("id")

	var req meetingStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := core.Validate.Struct(&req); err != nil {
		return err
	}

	// only the creator may reschedule or cancel
	meetings, err := api.svc.Store().MeetingsForUser(usr.ID)
	if err != nil {
		return err
	}
	var owned bool
	for _, m := range meetings {
		if m.ID == id {
			if m.CreatorID != usr.ID {
				return errHTTPForbidden
			}
			owned = true
			break
		}
	}
	if !owned {
		return school.ErrNotFound
	}

	m, err := api.svc.Store().UpdateMeetingStatus(id, req.Status)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, m)
}

type (
	classSummary struct {
		Class        school.Class `json:"class"`
		TeacherCount int          `json:"teacher_count"`
		StudentCount int          `json:"student_count"`
	}

	childSummary struct {
		Child    school.User   `json:"child"`
		Teachers []school.User `json:"teachers"`
	}

	dashboardResponse struct {
		User school.User `json:"user"`

		// admin
		ClassCount   int `json:"class_count,omitempty"`
		FacultyCount int `json:"faculty_count,omitempty"`
		StudentCount int `json:"student_count,omitempty"`
		ParentCount  int `json:"parent_count,omitempty"`

		// faculty
		Classes []classSummary `json:"classes,omitempty"`

		// student
		Teachers []school.User `json:"teachers,omitempty"`

		// parent
		Children []childSummary `json:"children,omitempty"`
	}
)

func (api *portalApi) dashboard(ctx echo.Context) error {
	usr := contextUser(ctx)
	res := dashboardResponse{User: usr}

	switch usr.Role {
	case school.RoleAdmin:
		classes, err := api.svc.Store().ClassesByInstitution(usr.InstitutionCode)
		if err != nil {
			return err
		}
		res.ClassCount = len(classes)
		for _, role := range []school.Role{school.RoleFaculty, school.RoleStudent, school.RoleParent} {
			users, err := api.svc.Store().UsersByRole(role, usr.InstitutionCode)
			if err != nil {
				return err
			}
			switch role {
			case school.RoleFaculty:
				res.FacultyCount = len(users)
			case school.RoleStudent:
				res.StudentCount = len(users)
			case school.RoleParent:
				res.ParentCount = len(users)
			}
		}

	case school.RoleFaculty:
		classes, err := api.res.ClassesOf(usr)
		if err != nil {
			return err
		}
		for _, cls := range classes {
			res.Classes = append(res.Classes, classSummary{
				Class:        cls,
				TeacherCount: len(cls.FacultyIDs),
				StudentCount: len(cls.StudentIDs),
			})
		}

	case school.RoleStudent:
		teachers, err := api.res.TeachersOf(usr)
		if err != nil {
			return err
		}
		res.Teachers = teachers

	case school.RoleParent:
		children, err := api.res.ChildrenOf(usr)
		if err != nil {
			return err
		}
		for _, child := range children {
			teachers, err := api.res.TeachersOf(child)
			if err != nil {
				return err
			}
			res.Children = append(res.Children, childSummary{Child: child, Teachers: teachers})
		}
	}

	return ctx.JSON(http.StatusOK, res)
}

type themePayload struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

func (api *portalApi) theme(ctx echo.Context) error {
	data, err := api.kv.Get(ctx.Request().Context(), core.KeyTheme)
	if err != nil {
		if pkgerrors.Is(err, core.ErrKeyNotFound) {
			return ctx.JSON(http.StatusOK, themePayload{Theme: "light"})
		}
		return err
	}
	return ctx.JSON(http.StatusOK, themePayload{Theme: string(data)})
}

func (api *portalApi) setTheme(ctx echo.Context) error {
	var req themePayload
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := core.Validate.Struct(&req); err != nil {
		return err
	}
	if err := api.kv.Set(ctx.Request().Context(), core.KeyTheme, []byte(req.Theme)); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, req)
}
