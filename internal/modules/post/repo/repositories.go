package repo

import (
	"tiny-blog-server/internal/model"

	"gorm.io/gorm"
)

// PostStore 文章存储
type PostStore interface {
	Create(post *model.Post) error
	FindByID(id uint) (*model.Post, error)
	List() ([]model.Post, error)
	ListNewestFirst() ([]model.Post, error)
	UpdateContent(id uint, title, body string) error
	Delete(post *model.Post) (remainingImageRefs int64, err error)
	CountByImgName(imgName string) (int64, error)
}

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) FindByID(id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List 按主键顺序返回，即存储的默认顺序
func (r *PostRepository) List() ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.Order("id ASC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListNewestFirst 按创建时间倒序，同一时间按 ID 倒序
func (r *PostRepository) ListNewestFirst() ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateContent 只更新标题与正文，created_at 与 img_name 保持不变
func (r *PostRepository) UpdateContent(id uint, title, body string) error {
	return r.db.Model(&model.Post{}).
		Where("id = ?", id).
		Select("title", "body").
		Updates(map[string]interface{}{"title": title, "body": body}).Error
}

// Delete 删除文章，并在同一事务内统计仍引用同一图片的文章数
func (r *PostRepository) Delete(post *model.Post) (int64, error) {
	var remaining int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Post{}, post.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if !post.HasImage() {
			return nil
		}
		return tx.Model(&model.Post{}).Where("img_name = ?", *post.ImgName).Count(&remaining).Error
	})
	return remaining, err
}

func (r *PostRepository) CountByImgName(imgName string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Post{}).Where("img_name = ?", imgName).Count(&count).Error
	return count, err
}
