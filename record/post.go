// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package record

import "github.com/blinklabs-io/slick/address"

// Post is a content record within a community. Content lives off-chain
// behind ContentURI; ContentHash is carried for integrity checks by
// consumers. Author and Pseudonym are mutually exclusive: exactly one is
// present, depending on whether the post is anonymous.
type Post struct {
	Community      address.Address
	PostID         uint64
	ContentURI     string
	ContentHash    [ContentHashSize]byte
	Author         OptionalAddress
	Pseudonym      OptionalString
	LikesCount     uint64
	CommentsCount  uint64
	TotalTipAmount uint64
	CreatedAt      int64
}

// PostAddress derives the record address for a post created at the given
// value of its community's post counter.
func PostAddress(community address.Address, postID uint64) address.Address {
	return address.Derive(
		string(KindPost),
		community.Bytes(),
		address.Uint64Seed(postID),
	)
}

func (p *Post) Kind() Kind {
	return KindPost
}

func (p *Post) MaxSize() int {
	return PostSize
}

func (p *Post) Encode() []byte {
	e := newEncoder(KindPost, PostSize)
	e.putAddress(p.Community)
	e.putU64(p.PostID)
	e.putString(p.ContentURI)
	e.putHash(p.ContentHash)
	author, hasAuthor := p.Author.Value()
	e.putBool(hasAuthor)
	if hasAuthor {
		e.putAddress(author)
	}
	pseudonym, hasPseudonym := p.Pseudonym.Value()
	e.putBool(hasPseudonym)
	if hasPseudonym {
		e.putString(pseudonym)
	}
	e.putU64(p.LikesCount)
	e.putU64(p.CommentsCount)
	e.putU64(p.TotalTipAmount)
	e.putI64(p.CreatedAt)
	return e.bytes()
}

func DecodePost(data []byte) (*Post, error) {
	fields, err := checkDiscriminator(data, KindPost)
	if err != nil {
		return nil, err
	}
	d := newDecoder(fields)
	ret := &Post{
		Community:   d.address(),
		PostID:      d.u64(),
		ContentURI:  d.string(MaxContentURILen),
		ContentHash: d.hash(),
	}
	if d.bool() {
		ret.Author = SomeAddress(d.address())
	}
	if d.bool() {
		ret.Pseudonym = SomeString(d.string(MaxPseudonymLen))
	}
	ret.LikesCount = d.u64()
	ret.CommentsCount = d.u64()
	ret.TotalTipAmount = d.u64()
	ret.CreatedAt = d.i64()
	if err := d.finish(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Like records that a user liked a post. At most one exists per
// (post, liker), enforced by the derived address.
type Like struct {
	Post    address.Address
	Liker   address.Address
	LikedAt int64
}

// LikeAddress derives the record address for a (post, liker) like.
func LikeAddress(post, liker address.Address) address.Address {
	return address.Derive(string(KindLike), post.Bytes(), liker.Bytes())
}

func (l *Like) Kind() Kind {
	return KindLike
}

func (l *Like) MaxSize() int {
	return LikeSize
}

func (l *Like) Encode() []byte {
	e := newEncoder(KindLike, LikeSize)
	e.putAddress(l.Post)
	e.putAddress(l.Liker)
	e.putI64(l.LikedAt)
	return e.bytes()
}

func DecodeLike(data []byte) (*Like, error) {
	fields, err := checkDiscriminator(data, KindLike)
	if err != nil {
		return nil, err
	}
	d := newDecoder(fields)
	ret := &Like{
		Post:    d.address(),
		Liker:   d.address(),
		LikedAt: d.i64(),
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Comment is a reply record on a post. Comment IDs are sequential per post,
// allocated from the post's comment counter.
type Comment struct {
	Post        address.Address
	Commenter   address.Address
	CommentID   uint64
	ContentURI  string
	ContentHash [ContentHashSize]byte
	CreatedAt   int64
}

// CommentAddress derives the record address for a comment created at the
// given value of its post's comment counter.
func CommentAddress(post address.Address, commentID uint64) address.Address {
	return address.Derive(
		string(KindComment),
		post.Bytes(),
		address.Uint64Seed(commentID),
	)
}

func (c *Comment) Kind() Kind {
	return KindComment
}

func (c *Comment) MaxSize() int {
	return CommentSize
}

func (c *Comment) Encode() []byte {
	e := newEncoder(KindComment, CommentSize)
	e.putAddress(c.Post)
	e.putAddress(c.Commenter)
	e.putU64(c.CommentID)
	e.putString(c.ContentURI)
	e.putHash(c.ContentHash)
	e.putI64(c.CreatedAt)
	return e.bytes()
}

func DecodeComment(data []byte) (*Comment, error) {
	fields, err := checkDiscriminator(data, KindComment)
	if err != nil {
		return nil, err
	}
	d := newDecoder(fields)
	ret := &Comment{
		Post:        d.address(),
		Commenter:   d.address(),
		CommentID:   d.u64(),
		ContentURI:  d.string(MaxContentURILen),
		ContentHash: d.hash(),
		CreatedAt:   d.i64(),
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Follow records that one profile follows another. At most one exists per
// ordered (follower, followed) pair, enforced by the derived address.
type Follow struct {
	Follower   address.Address
	Followed   address.Address
	FollowedAt int64
}

// FollowAddress derives the record address for an ordered
// (follower profile, followed profile) pair.
func FollowAddress(
	followerProfile, followedProfile address.Address,
) address.Address {
	return address.Derive(
		string(KindFollow),
		followerProfile.Bytes(),
		followedProfile.Bytes(),
	)
}

func (f *Follow) Kind() Kind {
	return KindFollow
}

func (f *Follow) MaxSize() int {
	return FollowSize
}

func (f *Follow) Encode() []byte {
	e := newEncoder(KindFollow, FollowSize)
	e.putAddress(f.Follower)
	e.putAddress(f.Followed)
	e.putI64(f.FollowedAt)
	return e.bytes()
}

func DecodeFollow(data []byte) (*Follow, error) {
	fields, err := checkDiscriminator(data, KindFollow)
	if err != nil {
		return nil, err
	}
	d := newDecoder(fields)
	ret := &Follow{
		Follower:   d.address(),
		Followed:   d.address(),
		FollowedAt: d.i64(),
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return ret, nil
}
